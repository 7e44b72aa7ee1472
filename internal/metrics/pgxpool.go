package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type poolStat struct {
	name string
	help string
	kind prometheus.ValueType
	read func(*pgxpool.Stat) float64
}

var poolStats = []poolStat{
	{"storefront_db_acquired_conns", "Connections currently checked out of the pool", prometheus.GaugeValue,
		func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
	{"storefront_db_idle_conns", "Idle connections in the pool", prometheus.GaugeValue,
		func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
	{"storefront_db_total_conns", "Open connections in the pool", prometheus.GaugeValue,
		func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
	{"storefront_db_max_conns", "Configured pool size", prometheus.GaugeValue,
		func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
	{"storefront_db_acquires_total", "Successful connection acquires", prometheus.CounterValue,
		func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }},
	{"storefront_db_empty_acquires_total", "Acquires that had to wait for a connection", prometheus.CounterValue,
		func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }},
	{"storefront_db_acquire_wait_seconds_total", "Time spent waiting for a connection", prometheus.CounterValue,
		func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }},
}

// poolCollector reads one pool snapshot per scrape.
type poolCollector struct {
	stat  func() *pgxpool.Stat
	descs []*prometheus.Desc
}

func newPoolCollector(stat func() *pgxpool.Stat) *poolCollector {
	c := &poolCollector{stat: stat}
	for _, ps := range poolStats {
		c.descs = append(c.descs, prometheus.NewDesc(ps.name, ps.help, nil, nil))
	}
	return c
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()
	for i, ps := range poolStats {
		ch <- prometheus.MustNewConstMetric(c.descs[i], ps.kind, ps.read(s))
	}
}

// RegisterPgxPoolMetrics exposes the pool's connection statistics.
func RegisterPgxPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(newPoolCollector(pool.Stat))
}
