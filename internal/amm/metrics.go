package amm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// Metrics holds the Prometheus collectors shared by all pools.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Swaps      *prometheus.CounterVec
	Liquidity  *prometheus.CounterVec
	Rollbacks  *prometheus.CounterVec
	Reserves   *prometheus.GaugeVec
	ShareTotal *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Swaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "swaps_total",
				Help:      "Swaps executed per pool, kind and status",
			},
			[]string{"pool", "kind", "status"},
		),
		Liquidity: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "liquidity_events_total",
				Help:      "Liquidity additions and removals per pool",
			},
			[]string{"pool", "kind", "status"},
		),
		Rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "rollbacks_total",
				Help:      "Operations undone after a failure, by outcome of the undo",
			},
			[]string{"pool", "result"},
		),
		Reserves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "reserve",
				Help:      "Current pool reserve per side (lossy float view)",
			},
			[]string{"pool", "side"},
		),
		ShareTotal: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "amm",
				Subsystem: "pool",
				Name:      "total_shares",
				Help:      "Outstanding liquidity shares (lossy float view)",
			},
			[]string{"pool"},
		),
	}
}

func (m *Metrics) swap(pool common.Address, kind, status string) {
	if m == nil {
		return
	}
	m.Swaps.WithLabelValues(pool.Hex(), kind, status).Inc()
}

func (m *Metrics) liquidity(pool common.Address, kind, status string) {
	if m == nil {
		return
	}
	m.Liquidity.WithLabelValues(pool.Hex(), kind, status).Inc()
}

func (m *Metrics) rollback(pool common.Address, result string) {
	if m == nil {
		return
	}
	m.Rollbacks.WithLabelValues(pool.Hex(), result).Inc()
}

func (m *Metrics) state(pool common.Address, base, asset, shares *uint256.Int) {
	if m == nil {
		return
	}
	id := pool.Hex()
	m.Reserves.WithLabelValues(id, "base").Set(base.Float64())
	m.Reserves.WithLabelValues(id, "asset").Set(asset.Float64())
	m.ShareTotal.WithLabelValues(id).Set(shares.Float64())
}
