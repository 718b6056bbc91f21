package bindings

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MJE43/roulette-oracle-desktop/internal/applog"
	"github.com/MJE43/roulette-oracle-desktop/internal/games"
	"github.com/MJE43/roulette-oracle-desktop/internal/livehttp"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
	"github.com/MJE43/roulette-oracle-desktop/internal/session"
	"github.com/MJE43/roulette-oracle-desktop/internal/version"
)

// Events pushed to the frontend when the session changes.
const (
	EventNewSpin = livehttp.EventNewSpin
	EventCleared = livehttp.EventCleared
)

// App is the Wails-bound object; the frontend calls its methods by name.
type App struct {
	ctx     context.Context
	history *session.History
	logger  zerolog.Logger

	emit   livehttp.Emitter
	ingest *livehttp.Module

	mu  sync.RWMutex
	sim *games.Simulator
}

// Options wires optional collaborators into App.
type Options struct {
	Seeds games.Seeds
	// Emit forwards session events to the frontend; nil drops them.
	Emit livehttp.Emitter
	// Ingest is reported by GetIngestInfo when set.
	Ingest *livehttp.Module
}

// Prediction is the frontend-facing analysis result.
type Prediction struct {
	Message string `json:"message"`
	Rule    string `json:"rule"`
	Spins   int    `json:"spins"`
	// Needed is how many more spins calibration requires (0 once calibrated).
	Needed int `json:"needed"`
}

// SeedInfo describes the simulator's provably-fair state. The server seed
// itself is only revealed by RotateSeeds.
type SeedInfo struct {
	ServerSeedHash string `json:"serverSeedHash"`
	ClientSeed     string `json:"clientSeed"`
	Nonce          uint64 `json:"nonce"`
}

// RevealedSeeds is returned when seeds are rotated.
type RevealedSeeds struct {
	Previous games.Seeds `json:"previous"`
	Nonce    uint64      `json:"nonce"`
	Next     SeedInfo    `json:"next"`
}

// New creates the bindings over history.
func New(history *session.History, opts Options) *App {
	emit := opts.Emit
	if emit == nil {
		emit = func(string, ...any) {}
	}
	return &App{
		history: history,
		sim:     games.NewSimulator(opts.Seeds),
		logger:  applog.Component("bindings"),
		emit:    emit,
		ingest:  opts.Ingest,
	}
}

// Startup stores the Wails context.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// PredictNextMove is the predict_next_move command: it analyses the history
// supplied by the caller (most recent first) and returns the recommendation.
func (a *App) PredictNextMove(history []predictor.SpinResult) string {
	return predictor.Analyze(history)
}

// Predict analyses the current session.
func (a *App) Predict() Prediction {
	results := a.history.Results()
	v := predictor.Evaluate(results)
	needed := predictor.MinHistory - len(results)
	if needed < 0 {
		needed = 0
	}
	return Prediction{Message: v.Message, Rule: v.Rule, Spins: len(results), Needed: needed}
}

// SimulateSpin draws the next provably-fair spin and records it.
func (a *App) SimulateSpin() (session.Spin, error) {
	// RotateSeeds must not reveal a seed pair while a spin on it is in flight.
	a.mu.RLock()
	out := a.sim.Next()
	spin := a.history.Record(out.Result, session.SourceSimulated, out.Nonce)
	a.mu.RUnlock()

	a.logger.Debug().Uint64("nonce", out.Nonce).Uint32("value", spin.Value).Msg("simulated spin")
	a.emit(EventNewSpin, spin)
	return spin, nil
}

// AddManualSpin records a spin entered by hand. value may be empty.
func (a *App) AddManualSpin(color, value string) (session.Spin, error) {
	res, err := session.ManualResult(color, value)
	if err != nil {
		return session.Spin{}, fmt.Errorf("manual entry: %w", err)
	}
	spin := a.history.Record(res, session.SourceManual, 0)
	a.emit(EventNewSpin, spin)
	return spin, nil
}

// GetHistory returns the session, most recent first.
func (a *App) GetHistory() []session.Spin {
	return a.history.Spins()
}

// GetStats returns colour counts for the session.
func (a *App) GetStats() session.Stats {
	return a.history.Stats()
}

// ClearHistory empties the session.
func (a *App) ClearHistory() {
	a.history.Clear()
	a.emit(EventCleared)
}

// GetSeedInfo returns the current commitment and nonce.
func (a *App) GetSeedInfo() SeedInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return seedInfo(a.sim)
}

// RotateSeeds reveals the current seed pair and starts a fresh one.
func (a *App) RotateSeeds() (RevealedSeeds, error) {
	seeds, err := games.NewSeeds()
	if err != nil {
		return RevealedSeeds{}, fmt.Errorf("rotate seeds: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.sim
	a.sim = games.NewSimulator(seeds)
	return RevealedSeeds{
		Previous: prev.Seeds(),
		Nonce:    prev.Nonce(),
		Next:     seedInfo(a.sim),
	}, nil
}

func seedInfo(sim *games.Simulator) SeedInfo {
	return SeedInfo{
		ServerSeedHash: sim.ServerSeedHash(),
		ClientSeed:     sim.Seeds().Client,
		Nonce:          sim.Nonce(),
	}
}

// GetIngestInfo tells the UI where external trackers can post spins.
func (a *App) GetIngestInfo() livehttp.IngestInfo {
	if a.ingest == nil {
		return livehttp.IngestInfo{}
	}
	return a.ingest.IngestInfo()
}

// GetVersion reports build information.
func (a *App) GetVersion() version.Info {
	return version.Get()
}
