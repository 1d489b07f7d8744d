package visualization

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/neurokit/spikelab/internal/cases"
	"github.com/neurokit/spikelab/internal/diagnosis"
	"github.com/neurokit/spikelab/internal/neuron"
)

// Server serves the interactive trace viewer and handles simulation
// API requests from it.
type Server struct {
	store      *cases.Store
	steps      int
	logger     *slog.Logger
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a trace viewer server backed by the given preset
// store. steps is the default step count for runs the page requests.
func NewServer(store *cases.Store, steps int) *Server {
	return &Server{store: store, steps: steps}
}

// SetLogger sets the structured logger for request observability.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe starts the HTTP server on an OS-assigned port and blocks
// until the context is cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/cases", s.handleCases)
	mux.HandleFunc("/api/simulate", s.handleSimulate)

	// Let the OS pick a free port.
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("trace viewer listening", "addr", s.addr)
	}

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleIndex serves the trace viewer page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := templates.ReadFile("templates/trace.html")
	if err != nil {
		http.Error(w, "template missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleCases returns the available preset names.
func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"cases": s.store.Names()})
}

// simulateRequest is the viewer's run request: either a preset name or
// a full parameter set.
type simulateRequest struct {
	Case   string         `json:"case,omitempty"`
	Params *neuron.Config `json:"params,omitempty"`
	Steps  int            `json:"steps,omitempty"`
}

// handleSimulate runs a simulation and returns trace, diagnosis, and
// treatment effectiveness in one payload.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}

	var cfg neuron.Config
	switch {
	case req.Params != nil:
		cfg = *req.Params
	case req.Case != "":
		var err error
		cfg, err = s.store.Get(req.Case)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	default:
		http.Error(w, "case or params required", http.StatusBadRequest)
		return
	}

	steps := req.Steps
	if steps == 0 {
		steps = s.steps
	}

	res, err := neuron.Simulate(cfg, steps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.logger != nil {
		s.logger.Debug("simulation served", "case", res.Name, "steps", steps, "spikes", res.TotalSpikes)
	}
	diag, err := diagnosis.Diagnose(cfg, res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"result":        res,
		"diagnosis":     diag,
		"effectiveness": diagnosis.EvaluateTreatment(cfg, res),
		"threshold":     cfg.ThresholdVoltage,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
