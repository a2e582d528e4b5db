// Package handlers provides the HTTP surface over the circuit bridge:
// callers describe a circuit as JSON, pick a backend, and get normalized
// counts, statevectors, or swap-test overlaps back.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/circuit"
	"github.com/jaskrrish/go-qbridge/internal/config"
	"github.com/jaskrrish/go-qbridge/internal/jobs"
	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

// Handler handles circuit HTTP requests.
type Handler struct {
	cfg   *config.Config
	store *jobs.Store
	log   zerolog.Logger
}

// NewHandler creates a circuit handler. store may be nil to disable
// execution history.
func NewHandler(cfg *config.Config, store *jobs.Store, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
		log:   log.With().Str("handler", "circuits").Logger(),
	}
}

// GateRequest is one gate in a circuit description. Params entries are JSON
// numbers (radians) or strings (named placeholders).
type GateRequest struct {
	Gate   string `json:"gate"`
	Qubits []int  `json:"qubits"`
	Params []any  `json:"params,omitempty"`
}

// CircuitRequest describes a circuit to build and run.
type CircuitRequest struct {
	Backend         string             `json:"backend"`
	Options         map[string]any     `json:"options,omitempty"`
	NumQubits       int                `json:"num_qubits"`
	Gates           []GateRequest      `json:"gates"`
	ParameterValues map[string]float64 `json:"parameter_values,omitempty"`
}

// OverlapRequest describes a swap-test run.
type OverlapRequest struct {
	CircuitRequest
	Qubit1       int `json:"qubit1"`
	Qubit2       int `json:"qubit2"`
	AncillaQubit int `json:"ancilla_qubit"`
}

// buildCircuit constructs and populates a facade from the request.
func (h *Handler) buildCircuit(req *CircuitRequest) (*circuit.Circuit, error) {
	backend := req.Backend
	if backend == "" {
		backend = h.cfg.DefaultBackend
	}
	opts := quantum.Options(req.Options)
	if opts == nil {
		opts = quantum.Options{}
	}
	if _, ok := opts["simulator_type"]; !ok {
		opts["simulator_type"] = h.cfg.SimulatorType
	}
	if _, ok := opts["shots"]; !ok {
		opts["shots"] = h.cfg.DefaultShots
	}

	circ, err := circuit.New(circuit.Config{BackendName: backend, BackendOptions: opts}, h.log)
	if err != nil {
		return nil, err
	}
	if err := circ.CreateEmptyCircuit(req.NumQubits); err != nil {
		return nil, err
	}

	for _, g := range req.Gates {
		if err := applyGate(circ, g); err != nil {
			return nil, err
		}
	}
	return circ, nil
}

// applyGate dispatches a described gate to the facade's typed surface.
func applyGate(circ *circuit.Circuit, g GateRequest) error {
	angles, err := parseAngles(g.Params)
	if err != nil {
		return fmt.Errorf("gate %s: %w", g.Gate, err)
	}
	needQubits := func(n int) error {
		if len(g.Qubits) != n {
			return fmt.Errorf("gate %s takes %d qubits, got %d", g.Gate, n, len(g.Qubits))
		}
		return nil
	}
	needAngles := func(n int) error {
		if len(angles) != n {
			return fmt.Errorf("gate %s takes %d params, got %d", g.Gate, n, len(angles))
		}
		return nil
	}

	switch g.Gate {
	case "x":
		return firstErr(needQubits(1), needAngles(0), func() error { return circ.ApplyPauliXGate(g.Qubits[0]) })
	case "y":
		return firstErr(needQubits(1), needAngles(0), func() error { return circ.ApplyPauliYGate(g.Qubits[0]) })
	case "z":
		return firstErr(needQubits(1), needAngles(0), func() error { return circ.ApplyPauliZGate(g.Qubits[0]) })
	case "h":
		return firstErr(needQubits(1), needAngles(0), func() error { return circ.ApplyHadamardGate(g.Qubits[0]) })
	case "rx":
		return firstErr(needQubits(1), needAngles(1), func() error { return circ.ApplyRXGate(g.Qubits[0], angles[0]) })
	case "ry":
		return firstErr(needQubits(1), needAngles(1), func() error { return circ.ApplyRYGate(g.Qubits[0], angles[0]) })
	case "rz":
		return firstErr(needQubits(1), needAngles(1), func() error { return circ.ApplyRZGate(g.Qubits[0], angles[0]) })
	case "u", "u3":
		return firstErr(needQubits(1), needAngles(3), func() error {
			return circ.ApplyUGate(g.Qubits[0], angles[0], angles[1], angles[2])
		})
	case "cx", "cnot":
		return firstErr(needQubits(2), needAngles(0), func() error { return circ.ApplyCNOTGate(g.Qubits[0], g.Qubits[1]) })
	case "ccx", "toffoli":
		return firstErr(needQubits(3), needAngles(0), func() error {
			return circ.ApplyToffoliGate(g.Qubits[0], g.Qubits[1], g.Qubits[2])
		})
	case "swap":
		return firstErr(needQubits(2), needAngles(0), func() error { return circ.ApplySwapGate(g.Qubits[0], g.Qubits[1]) })
	case "cswap":
		return firstErr(needQubits(3), needAngles(0), func() error {
			return circ.ApplyCSwapGate(g.Qubits[0], g.Qubits[1], g.Qubits[2])
		})
	case "measure":
		return firstErr(needAngles(0), nil, func() error { return circ.ApplyMeasurement(g.Qubits...) })
	}
	return fmt.Errorf("unknown gate %q", g.Gate)
}

func firstErr(a, b error, apply func() error) error {
	if a != nil {
		return a
	}
	if b != nil {
		return b
	}
	return apply()
}

func parseAngles(params []any) ([]quantum.Angle, error) {
	angles := make([]quantum.Angle, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case float64:
			angles = append(angles, quantum.Radians(v))
		case string:
			angles = append(angles, quantum.Param(v))
		default:
			return nil, fmt.Errorf("param must be a number or a parameter name, got %T", p)
		}
	}
	return angles, nil
}

// HandleExecute handles POST /api/v1/circuits/execute.
func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req CircuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	circ, err := h.buildCircuit(&req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	start := time.Now()
	counts, err := circ.ExecuteCircuit(r.Context(), req.ParameterValues)
	if err != nil {
		h.writeError(w, err)
		return
	}
	duration := time.Since(start)

	rec := &jobs.Record{
		Backend:    circ.Backend(),
		NumQubits:  circ.NumQubits(),
		Shots:      counts.Shots(),
		Counts:     counts,
		DurationMS: duration.Milliseconds(),
	}
	if h.store != nil {
		if err := h.store.Save(rec); err != nil {
			h.log.Error().Err(err).Msg("Failed to record execution")
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"job_id":  rec.ID,
			"backend": circ.Backend(),
			"shots":   counts.Shots(),
			"counts":  counts,
		},
		"metadata": map[string]any{
			"duration_ms": duration.Milliseconds(),
			"timestamp":   time.Now().Format(time.RFC3339),
		},
	})
}

// HandleStatevector handles POST /api/v1/circuits/statevector.
func (h *Handler) HandleStatevector(w http.ResponseWriter, r *http.Request) {
	var req CircuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	circ, err := h.buildCircuit(&req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	amps, err := circ.GetFinalStateVector(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	encoded := make([]map[string]float64, len(amps))
	for i, a := range amps {
		encoded[i] = map[string]float64{"re": real(a), "im": imag(a)}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"backend":    circ.Backend(),
			"num_qubits": circ.NumQubits(),
			"amplitudes": encoded,
		},
	})
}

// HandleOverlap handles POST /api/v1/circuits/overlap.
func (h *Handler) HandleOverlap(w http.ResponseWriter, r *http.Request) {
	var req OverlapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	circ, err := h.buildCircuit(&req.CircuitRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}

	overlap, err := circ.MeasureOverlap(r.Context(), req.Qubit1, req.Qubit2, req.AncillaQubit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"backend": circ.Backend(),
			"qubit1":  req.Qubit1,
			"qubit2":  req.Qubit2,
			"ancilla": req.AncillaQubit,
			"overlap": overlap,
		},
	})
}

// HandleListJobs handles GET /api/v1/jobs.
func (h *Handler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Execution history disabled", http.StatusNotFound)
		return
	}
	records, err := h.store.List(50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list execution records")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

// HandleGetJob handles GET /api/v1/jobs/{id}.
func (h *Handler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Execution history disabled", http.StatusNotFound)
		return
	}
	rec, err := h.store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, jobs.ErrNotFound) {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load execution record")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "go-qbridge",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// writeError maps the error taxonomy onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		unsupportedBackend *quantum.UnsupportedBackendError
		invalidIndex       *quantum.InvalidQubitIndexError
		unbound            *quantum.UnboundParameterError
		unsupportedOp      *quantum.UnsupportedOperationError
		remoteFailure      *quantum.BackendExecutionError
	)

	status := http.StatusBadRequest
	switch {
	case errors.As(err, &remoteFailure):
		status = http.StatusBadGateway
	case errors.As(err, &unsupportedBackend), errors.As(err, &invalidIndex):
		status = http.StatusBadRequest
	case errors.As(err, &unbound), errors.As(err, &unsupportedOp):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, quantum.ErrCircuitNotInitialized):
		status = http.StatusInternalServerError
	}

	h.log.Warn().Err(err).Int("status", status).Msg("Circuit request failed")
	h.writeJSON(w, status, map[string]any{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
