package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	DeploymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployator_deployments_total",
			Help: "Number of module deployments submitted, by module and result",
		}, []string{"module", "result"},
	)
	ValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployator_validations_total",
			Help: "Number of template validations performed, by module and result",
		}, []string{"module", "result"},
	)
	RoleAssignmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deployator_role_assignments_total",
			Help: "Number of role assignments ensured",
		},
	)
	ResourcesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deployator_resources_deleted_total",
			Help: "Number of resources deleted during destroy",
		},
	)
	DeploymentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deployator_deployment_duration_seconds",
			Help:    "Wall-clock duration of module deployments",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"module"},
	)
)

const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
)

func init() {
	prometheus.MustRegister(
		DeploymentsTotal,
		ValidationsTotal,
		RoleAssignmentsTotal,
		ResourcesDeletedTotal,
		DeploymentDuration,
	)
}

func ObserveDeployment(module string, start time.Time, err error) {
	result := ResultSucceeded
	if err != nil {
		result = ResultFailed
	}
	DeploymentsTotal.WithLabelValues(module, result).Inc()
	DeploymentDuration.WithLabelValues(module).Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on addr for the duration of the run.
// Deployments routinely run for tens of minutes, long enough to scrape.
func Serve(addr string) {
	if len(addr) == 0 {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("serving metrics on %s: %v", addr, err)
		}
	}()
}
