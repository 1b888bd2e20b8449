package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sigreer/fmlogreport/internal/pipeline"
)

const namespace = "fmlogreport"

// WriteTextfile writes the statistics of one run to path in the
// Prometheus text exposition format, for pickup by a node exporter
// textfile collector.
func WriteTextfile(path string, stats pipeline.Stats, devices int) error {
	reg := prometheus.NewRegistry()

	lines := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lines_total",
		Help:      "Non-blank input lines read",
	})
	recorded := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ereports_recorded_total",
		Help:      "Ereports recorded into the aggregation table",
	})
	filtered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ereports_filtered_total",
		Help:      "Input lines skipped by class filters",
	}, []string{"reason"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ereports_dropped_total",
		Help:      "Ereports dropped because no identity could be resolved",
	}, []string{"reason"})
	deviceGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "devices",
		Help:      "Distinct devices in the report",
	})

	collectors := []prometheus.Collector{lines, recorded, filtered, dropped, deviceGauge}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering metric: %w", err)
		}
	}

	lines.Add(float64(stats.Lines))
	recorded.Add(float64(stats.Recorded))
	for reason, n := range stats.Filtered {
		filtered.WithLabelValues(string(reason)).Add(float64(n))
	}
	for reason, n := range stats.Dropped {
		dropped.WithLabelValues(reason).Add(float64(n))
	}
	deviceGauge.Set(float64(devices))

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
