// Package livehttp runs a loopback HTTP API so external trackers can push
// spins into the running session and request predictions.
package livehttp

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MJE43/roulette-oracle-desktop/internal/applog"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
	"github.com/MJE43/roulette-oracle-desktop/internal/session"
	"github.com/MJE43/roulette-oracle-desktop/internal/version"
)

// Events emitted to the UI.
const (
	EventNewSpin = "spins:new"
	EventCleared = "spins:cleared"
)

const tokenHeader = "X-Ingest-Token"

// Emitter forwards events to the UI. main wires it to the Wails runtime.
type Emitter func(event string, data ...any)

// Server is the local HTTP API, bound to 127.0.0.1 only.
type Server struct {
	history      *session.History
	token        string
	addr         string
	emit         Emitter
	logger       zerolog.Logger
	httpServer   *http.Server
	startTime    time.Time
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// New creates a server for history. token may be empty to disable token
// checks; emit may be nil.
func New(history *session.History, port int, token string, emit Emitter) *Server {
	if emit == nil {
		emit = func(string, ...any) {}
	}
	return &Server{
		history:      history,
		token:        token,
		addr:         loopbackAddr(port),
		emit:         emit,
		logger:       applog.Component("livehttp"),
		startTime:    time.Now(),
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func loopbackAddr(port int) string {
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.addr }

// URL is the base URL clients should use.
func (s *Server) URL() string { return "http://" + s.addr }

// TokenEnabled reports whether requests must carry X-Ingest-Token.
func (s *Server) TokenEnabled() bool { return s.token != "" }

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequest)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "wails://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", tokenHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/predict_next_move", s.handlePredict)
		r.Route("/spins", func(r chi.Router) {
			r.Get("/", s.handleListSpins)
			r.Post("/", s.handleIngest)
			r.Delete("/", s.handleClear)
			r.Get("/stats", s.handleStats)
			r.Get("/export.csv", s.handleExport)
		})
	})

	return r
}

// Start binds the socket and serves in a goroutine. It returns once the
// socket is bound.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("serve failed")
		}
	}()
	s.logger.Info().Str("addr", s.addr).Bool("token", s.TokenEnabled()).Msg("live ingest listening")
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ========== Handlers ==========

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Get(),
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"spins":   s.history.Len(),
	})
}

type predictRequest struct {
	History *[]predictor.SpinResult `json:"history"`
}

// PredictResponse is the body returned by POST /predict_next_move.
type PredictResponse struct {
	Prediction string `json:"prediction"`
	Rule       string `json:"rule"`
	Spins      int    `json:"spins"`
}

// POST /predict_next_move
// Body {"history":[...]} analyses the given history; an empty body or a
// missing history analyses the current session.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusUnprocessableEntity, errObj("VALIDATION_ERROR", "invalid JSON", "history"))
		return
	}

	history := s.history.Results()
	if req.History != nil {
		history = *req.History
	}
	v := predictor.Evaluate(history)
	writeJSON(w, http.StatusOK, PredictResponse{Prediction: v.Message, Rule: v.Rule, Spins: len(history)})
}

// GET /spins?limit=&offset=
func (s *Server) handleListSpins(w http.ResponseWriter, r *http.Request) {
	spins := s.history.Spins()
	total := len(spins)
	limit := clampInt(qInt(r, "limit", 100), 1, 1000)
	offset := clampInt(qInt(r, "offset", 0), 0, total)

	end := offset + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"spins": spins[offset:end],
		"total": total,
	})
}

type ingestPayload struct {
	Value *uint32 `json:"value"`
	Color string  `json:"color"`
}

// POST /spins
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var p ingestPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errObj("VALIDATION_ERROR", "invalid JSON", ""))
		return
	}
	if p.Value == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errObj("VALIDATION_ERROR", "value is required", "value"))
		return
	}

	res, err := session.IngestResult(*p.Value, p.Color)
	if err != nil {
		field := "value"
		if errors.Is(err, session.ErrInvalidColor) {
			field = "color"
		}
		writeJSON(w, http.StatusUnprocessableEntity, errObj("VALIDATION_ERROR", err.Error(), field))
		return
	}

	spin := s.history.Record(res, session.SourceIngest, 0)
	s.emit(EventNewSpin, spin)
	s.logger.Debug().Uint32("value", spin.Value).Stringer("color", spin.Color).Msg("spin ingested")

	writeJSON(w, http.StatusCreated, map[string]any{
		"spin":       spin,
		"prediction": predictor.Analyze(s.history.Results()),
	})
}

// DELETE /spins
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.history.Clear()
	s.emit(EventCleared)
	w.WriteHeader(http.StatusNoContent)
}

// GET /spins/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.Stats())
}

// GET /spins/export.csv
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="spins.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "timestamp", "value", "color", "source"})
	for _, sp := range s.history.Spins() {
		_ = cw.Write([]string{
			sp.ID.String(),
			sp.Timestamp.Format(time.RFC3339Nano),
			strconv.FormatUint(uint64(sp.Value), 10),
			sp.Color.String(),
			string(sp.Source),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.logger.Error().Err(err).Msg("csv export failed")
	}
}

// ========== Middleware & helpers ==========

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get(tokenHeader) != s.token {
			writeJSON(w, http.StatusUnauthorized, errObj("UNAUTHORIZED", "missing or invalid "+tokenHeader, ""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errObj(code, msg, field string) map[string]any {
	e := map[string]any{
		"code":    code,
		"message": msg,
	}
	if field != "" {
		e["field"] = field
	}
	return map[string]any{"error": e}
}

func qInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
