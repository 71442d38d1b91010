// Package metrics holds the prometheus collectors patchdash records into and
// the optional HTTP endpoint that exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Namespace prefixes every metric name.
const Namespace = "patchdash"

// Metrics groups the collectors and their registry.
type Metrics struct {
	Registry *prometheus.Registry

	RemoteCalls   *prometheus.HistogramVec
	LoadFailures  *prometheus.CounterVec
	ModalsOpened  *prometheus.CounterVec
	Optimizations *prometheus.CounterVec
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RemoteCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of calls to the scheduling service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call", "outcome"}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "load_failures_total",
			Help:      "Collections that failed to load.",
		}, []string{"collection"}),
		ModalsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "modals_opened_total",
			Help:      "Overlays opened, by kind.",
		}, []string{"modal"}),
		Optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "optimizations_total",
			Help:      "Optimization runs, by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.RemoteCalls, m.LoadFailures, m.ModalsOpened, m.Optimizations)
	return m
}

// ObserveCall records one remote call. Safe on a nil receiver.
func (m *Metrics) ObserveCall(call string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.RemoteCalls.WithLabelValues(call, outcome).Observe(d.Seconds())
}

// LoadFailed counts a failed collection load. Safe on a nil receiver.
func (m *Metrics) LoadFailed(collection string) {
	if m == nil {
		return
	}
	m.LoadFailures.WithLabelValues(collection).Inc()
}

// ModalOpened counts an opened overlay. Safe on a nil receiver.
func (m *Metrics) ModalOpened(kind string) {
	if m == nil {
		return
	}
	m.ModalsOpened.WithLabelValues(kind).Inc()
}

// Optimized counts an optimization run. Safe on a nil receiver.
func (m *Metrics) Optimized(result string) {
	if m == nil {
		return
	}
	m.Optimizations.WithLabelValues(result).Inc()
}

// Router returns a chi router exposing /metrics and /healthz.
func (m *Metrics) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// Serve exposes the router on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: m.Router(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("Metrics endpoint started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
