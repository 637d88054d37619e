package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// Computation result labels.
const (
	ResultSuccess  = "success"
	ResultWarnings = "warnings"
	ResultError    = "error"
)

// ComputationCollector exposes metrics about the propagation computations
// themselves, independent of the transport that requested them.
type ComputationCollector struct {
	Computations    *prometheus.CounterVec
	TransmissionDB  *prometheus.HistogramVec
	WarningFlags    *prometheus.CounterVec
	ComputationTime prometheus.Histogram
}

// NewComputationCollector registers computation metrics against the
// provided registerer.
func NewComputationCollector(reg prometheus.Registerer) (*ComputationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ilm_computations_total",
		Help: "Propagation computations, labeled by mode kind (p2p or area), propagation mode, and result.",
	}, []string{"mode_kind", "propagation_mode", "result"})
	computations, err := registerCounterVec(reg, computations, "ilm_computations_total")
	if err != nil {
		return nil, err
	}

	loss := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ilm_basic_transmission_loss_db",
		Help:    "Basic transmission loss of successful computations in dB.",
		Buckets: prometheus.LinearBuckets(60, 20, 12),
	}, []string{"mode_kind"})
	loss, err = registerHistogramVec(reg, loss, "ilm_basic_transmission_loss_db")
	if err != nil {
		return nil, err
	}

	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ilm_warnings_total",
		Help: "Warning flags raised by propagation computations.",
	}, []string{"flag"})
	warnings, err = registerCounterVec(reg, warnings, "ilm_warnings_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ilm_computation_duration_seconds",
		Help:    "Wall time of a single propagation computation.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
	duration, err = registerHistogram(reg, duration, "ilm_computation_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &ComputationCollector{
		Computations:    computations,
		TransmissionDB:  loss,
		WarningFlags:    warnings,
		ComputationTime: duration,
	}, nil
}

// RecordComputation records one finished computation. kind is "p2p" or
// "area"; lossDB is only observed when err is nil.
func (c *ComputationCollector) RecordComputation(kind string, mode model.Mode, w model.Warning, lossDB float64, err error, elapsed time.Duration) {
	if c == nil {
		return
	}

	result := ResultSuccess
	switch {
	case err != nil:
		result = ResultError
	case w != model.WarnNone:
		result = ResultWarnings
	}

	if c.Computations != nil {
		c.Computations.WithLabelValues(kind, mode.String(), result).Inc()
	}
	if err == nil && c.TransmissionDB != nil {
		c.TransmissionDB.WithLabelValues(kind).Observe(lossDB)
	}
	if c.WarningFlags != nil {
		for _, name := range w.Names() {
			c.WarningFlags.WithLabelValues(name).Inc()
		}
	}
	if c.ComputationTime != nil {
		c.ComputationTime.Observe(elapsed.Seconds())
	}
}
