package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentOps counts lifecycle operation outcomes by operation and
// success/failure.
var PaymentOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: "payment",
		Name:      "ops_total",
		Help:      "payment lifecycle operations by outcome",
	},
	[]string{"operation", "outcome"},
)

// FinalizeRetries counts finalize re-attempts across all payments.
var FinalizeRetries = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: "payment",
		Name:      "finalize_retries_total",
		Help:      "finalize attempts beyond the first",
	},
)

func init() {
	prometheus.MustRegister(PaymentOps, FinalizeRetries)
}
