package metric

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

// Server exposes pipeline metrics over HTTP for long-running invocations.
// Batch runs normally skip it; the CLI starts one only when asked.
type Server struct {
	addr     string
	path     string
	registry *prometheus.Registry
	server   *http.Server
	mu       sync.Mutex // protects server field
}

// NewServer creates a metrics server backed by a fresh registry carrying
// the pipeline metrics plus Go runtime collectors.
func NewServer(addr string, m *Metrics) (*Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if m != nil {
		if err := m.Register(registry); err != nil {
			return nil, errors.Wrap(err, "metric.Server", "NewServer", "register pipeline metrics")
		}
	}
	return &Server{
		addr:     addr,
		path:     "/metrics",
		registry: registry,
	}, nil
}

// Start serves the metrics endpoint until Stop is called. It blocks.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return errors.Wrap(
			fmt.Errorf("server already running"),
			"metric.Server", "Start", "start metrics server")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{Addr: s.addr, Handler: mux}
	s.mu.Unlock()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "metric.Server", "Start",
			fmt.Sprintf("serve metrics on %s", s.addr))
	}
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	err := s.server.Close()
	s.server = nil
	return err
}
