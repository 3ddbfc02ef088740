// Package metrics exports pool counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarsh5026/batchpool/pool"
)

// StatsSource is anything that can report pool statistics; *pool.Pool
// satisfies it.
type StatsSource interface {
	Stats() pool.Stats
}

type collector struct {
	src StatsSource

	workers     *prometheus.Desc
	liveWorkers *prometheus.Desc
	state       *prometheus.Desc
	batches     *prometheus.Desc
	tasks       *prometheus.Desc
	panics      *prometheus.Desc
}

// NewCollector returns a prometheus.Collector reading src on every scrape.
// constLabels are attached to every series, e.g. to tell several pools apart.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(p, "solver", prometheus.Labels{"pool": "constraints"}))
func NewCollector(src StatsSource, namespace string, constLabels prometheus.Labels) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", name),
			help, nil, constLabels,
		)
	}

	return &collector{
		src:         src,
		workers:     desc("workers", "Configured number of pool workers."),
		liveWorkers: desc("live_workers", "Worker goroutines currently running."),
		state:       desc("state", "Lifecycle state: 0 uninitialized, 1 idle, 2 batch, 3 terminated."),
		batches:     desc("batches_total", "Batches completed."),
		tasks:       desc("tasks_total", "Tasks executed."),
		panics:      desc("task_panics_total", "Tasks that panicked."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.liveWorkers
	ch <- c.state
	ch <- c.batches
	ch <- c.tasks
	ch <- c.panics
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(s.Workers))
	ch <- prometheus.MustNewConstMetric(c.liveWorkers, prometheus.GaugeValue, float64(s.LiveWorkers))
	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(s.State))
	ch <- prometheus.MustNewConstMetric(c.batches, prometheus.CounterValue, float64(s.Batches))
	ch <- prometheus.MustNewConstMetric(c.tasks, prometheus.CounterValue, float64(s.Tasks))
	ch <- prometheus.MustNewConstMetric(c.panics, prometheus.CounterValue, float64(s.Panics))
}
