package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DepositRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cashier",
			Subsystem: "deposit",
			Name:      "requests_total",
			Help:      "Deposit request transitions partitioned by action and result.",
		},
		[]string{"action", "result"},
	)
	WithdrawRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cashier",
			Subsystem: "withdraw",
			Name:      "requests_total",
			Help:      "Withdraw request transitions partitioned by action and result.",
		},
		[]string{"action", "result"},
	)
	GameCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cashier",
			Subsystem: "callback",
			Name:      "processed_total",
			Help:      "Game provider callbacks partitioned by bet type and result.",
		},
		[]string{"bet_type", "result"},
	)
	TurnoverApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cashier",
			Subsystem: "turnover",
			Name:      "applied_total",
			Help:      "Wagering volume applied against open turnover requirements.",
		},
	)
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
