package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetPrefix(t *testing.T) {
	t.Run("carves consecutive /24s from a /16", func(t *testing.T) {
		for n, expected := range map[int]string{
			1: "10.10.1.0/24",
			2: "10.10.2.0/24",
			3: "10.10.3.0/24",
		} {
			prefix, err := subnetPrefix("10.10.0.0/16", n)
			require.NoError(t, err)
			assert.Equal(t, expected, prefix)
		}
	})

	t.Run("wider spaces work too", func(t *testing.T) {
		prefix, err := subnetPrefix("10.0.0.0/8", 1)
		require.NoError(t, err)
		assert.Equal(t, "10.0.1.0/24", prefix)
	})

	t.Run("spaces narrower than a /16 are rejected", func(t *testing.T) {
		for _, space := range []string{"10.10.0.0/23", "10.10.0.0/24", "10.10.0.0/28"} {
			_, err := subnetPrefix(space, 1)
			assert.Error(t, err, space)
		}
	})

	t.Run("subnets beyond the third octet are rejected", func(t *testing.T) {
		_, err := subnetPrefix("10.255.253.0/16", 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not fit")
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := subnetPrefix("not-a-cidr", 1)
		assert.Error(t, err)
	})
}
