// Package metrics exposes the enforcement engine's counters on a local
// Prometheus endpoint.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_messages_scanned_total",
		Help: "Messages evaluated by the automod scanner.",
	})

	ViolationsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_violations_total",
		Help: "Automod violations by rule.",
	}, []string{"rule"})

	PunishmentsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_punishments_total",
		Help: "Punishments executed by kind.",
	}, []string{"kind"})

	RaidsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_raids_detected_total",
		Help: "Join-rate raid detections.",
	})

	WarningsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_warnings_issued_total",
		Help: "Warnings recorded by the warning ledger.",
	})

	ExpirySweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modbot_expiry_sweeps_total",
		Help: "Expiry scheduler ticks.",
	})

	SanctionsReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_sanctions_reversed_total",
		Help: "Expired sanctions reversed, by kind.",
	}, []string{"kind"})

	ConfigCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_config_cache_hits_total",
		Help: "Guild config cache hits by layer (l1, l2).",
	}, []string{"layer"})

	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_commands_total",
		Help: "Slash command invocations by command name.",
	}, []string{"command"})
)

// Serve starts the metrics endpoint. Intended for a localhost address,
// same as the pprof listener.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("Starting metrics server on %s", addr)
		log.Println(http.ListenAndServe(addr, mux))
	}()
}
