package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/reportal/deployator/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
