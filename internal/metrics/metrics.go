// Package metrics counts the work done by the list renderer so the effect of
// memoization can be observed from outside the terminal.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "togglelist"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rowRenders    prometheus.Counter
	rowSkips      prometheus.Counter
	dataComputes  prometheus.Counter
	dataHits      prometheus.Counter
	toggles       *prometheus.CounterVec
	renderedRows  prometheus.Gauge
	mountedRows   prometheus.Gauge
	scrollOffset  prometheus.Gauge
	renderSeconds prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rowRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_renders_total",
			Help:      "Row renderer invocations.",
		}),
		rowSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_render_skips_total",
			Help:      "Mounted rows reused because their props did not change.",
		}),
		dataComputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_data_computations_total",
			Help:      "Shared row data objects created.",
		}),
		dataHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_data_cache_hits_total",
			Help:      "Shared row data lookups answered from the memo slot.",
		}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggles_total",
			Help:      "Toggle requests by result.",
		}, []string{"result"}),
		renderedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visible_rows",
			Help:      "Rows inside the viewport on the last render.",
		}),
		mountedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mounted_rows",
			Help:      "Rows inside the overscan window on the last render.",
		}),
		scrollOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scroll_offset_cells",
			Help:      "Scroll offset of the list on the last render.",
		}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent in a list render pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	reg.MustRegister(
		m.rowRenders,
		m.rowSkips,
		m.dataComputes,
		m.dataHits,
		m.toggles,
		m.renderedRows,
		m.mountedRows,
		m.scrollOffset,
		m.renderSeconds,
	)
	return m
}

// RowRendered records a row renderer invocation.
func (m *Metrics) RowRendered() {
	if m == nil {
		return
	}
	m.rowRenders.Inc()
}

// RowSkipped records a mounted row whose cached output was reused.
func (m *Metrics) RowSkipped() {
	if m == nil {
		return
	}
	m.rowSkips.Inc()
}

// ItemData records a shared row data lookup. hit is true when the memoized
// value was returned.
func (m *Metrics) ItemData(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.dataHits.Inc()
		return
	}
	m.dataComputes.Inc()
}

// Toggled records a toggle request.
func (m *Metrics) Toggled(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.toggles.WithLabelValues(result).Inc()
}

// Rendered records the outcome of a list render pass.
func (m *Metrics) Rendered(visible, mounted, offset int, took time.Duration) {
	if m == nil {
		return
	}
	m.renderedRows.Set(float64(visible))
	m.mountedRows.Set(float64(mounted))
	m.scrollOffset.Set(float64(offset))
	m.renderSeconds.Observe(took.Seconds())
}

// The accessors below expose the collectors to tests and callers that
// gather them directly.

func (m *Metrics) RowRenders() prometheus.Counter { return m.rowRenders }
func (m *Metrics) RowSkips() prometheus.Counter { return m.rowSkips }
func (m *Metrics) ItemDataComputations() prometheus.Counter { return m.dataComputes }
func (m *Metrics) ItemDataHits() prometheus.Counter { return m.dataHits }

func (m *Metrics) Toggles(result string) prometheus.Counter {
	return m.toggles.WithLabelValues(result)
}

// Serve exposes the registry on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to shut down metrics server", "error", err)
		}
	}()

	slog.Info("Serving metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
