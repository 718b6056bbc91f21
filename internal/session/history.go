// Package session holds the spin history of the running app. It lives only
// as long as the process; nothing is written to disk.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MJE43/roulette-oracle-desktop/internal/games"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
)

var (
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidPocket = errors.New("invalid pocket")
)

// Source records where a spin came from.
type Source string

const (
	SourceSimulated Source = "simulated"
	SourceManual    Source = "manual"
	SourceIngest    Source = "ingest"
)

// Spin is a recorded spin.
type Spin struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Value     uint32          `json:"value"`
	Color     predictor.Color `json:"color"`
	Source    Source          `json:"source"`
	Nonce     uint64          `json:"nonce,omitempty"`
}

// Result strips the record down to what the predictor reads.
func (s Spin) Result() predictor.SpinResult {
	return predictor.SpinResult{Value: s.Value, Color: s.Color}
}

// Stats mirrors the live session panel.
type Stats struct {
	RedCount     int    `json:"redCount"`
	BlackCount   int    `json:"blackCount"`
	GreenCount   int    `json:"greenCount"`
	TotalSpins   int    `json:"totalSpins"`
	RedPercent   string `json:"redPercent"`
	BlackPercent string `json:"blackPercent"`
	GreenPercent string `json:"greenPercent"`
}

// History is a most-recent-first spin list. Safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	spins    []Spin
	maxSpins int
	now      func() time.Time
}

// NewHistory creates an empty history. maxSpins <= 0 means unbounded;
// otherwise the oldest spins are dropped once the limit is reached.
func NewHistory(maxSpins int) *History {
	return &History{maxSpins: maxSpins, now: time.Now}
}

// Record prepends a spin and returns the stored record.
func (h *History) Record(r predictor.SpinResult, src Source, nonce uint64) Spin {
	s := Spin{
		ID:        uuid.New(),
		Timestamp: h.now().UTC(),
		Value:     r.Value,
		Color:     r.Color,
		Source:    src,
		Nonce:     nonce,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.spins = append([]Spin{s}, h.spins...)
	if h.maxSpins > 0 && len(h.spins) > h.maxSpins {
		h.spins = h.spins[:h.maxSpins]
	}
	return s
}

// Spins returns a copy of the history, most recent first.
func (h *History) Spins() []Spin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Spin(nil), h.spins...)
}

// Results returns the history in the shape the predictor consumes.
func (h *History) Results() []predictor.SpinResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]predictor.SpinResult, len(h.spins))
	for i, s := range h.spins {
		out[i] = s.Result()
	}
	return out
}

// Last returns the latest spin.
func (h *History) Last() (Spin, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.spins) == 0 {
		return Spin{}, false
	}
	return h.spins[0], true
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spins)
}

// Clear drops every spin.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spins = nil
}

// Stats counts colours over the whole history.
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := Stats{TotalSpins: len(h.spins)}
	for _, s := range h.spins {
		switch s.Color {
		case predictor.ColorRed:
			st.RedCount++
		case predictor.ColorBlack:
			st.BlackCount++
		case predictor.ColorGreen:
			st.GreenCount++
		}
	}
	st.RedPercent = share(st.RedCount, st.TotalSpins)
	st.BlackPercent = share(st.BlackCount, st.TotalSpins)
	st.GreenPercent = share(st.GreenCount, st.TotalSpins)
	return st
}

func share(n, total int) string {
	if total == 0 {
		return "0%"
	}
	pct := decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total)))
	return pct.StringFixed(1) + "%"
}

// parseEntryColor accepts hand-typed or tracker colours in any case.
func parseEntryColor(color string) predictor.Color {
	return predictor.ParseColor(strings.ToUpper(strings.TrimSpace(color)))
}

// ManualResult builds a spin from a colour button and an optional typed
// value. An empty or non-numeric value falls back to GREEN=0, RED=1, BLACK=2.
func ManualResult(color, value string) (predictor.SpinResult, error) {
	c := parseEntryColor(color)
	if !c.Known() {
		return predictor.SpinResult{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		switch c {
		case predictor.ColorGreen:
			v = 0
		case predictor.ColorRed:
			v = 1
		default:
			v = 2
		}
	}
	if v >= games.Pockets {
		return predictor.SpinResult{}, fmt.Errorf("%w: %d is not on a European wheel", ErrInvalidPocket, v)
	}
	return predictor.SpinResult{Value: uint32(v), Color: c}, nil
}

// IngestResult validates a spin pushed by an external tracker. A missing
// colour is derived from the pocket.
func IngestResult(value uint32, color string) (predictor.SpinResult, error) {
	if value >= games.Pockets {
		return predictor.SpinResult{}, fmt.Errorf("%w: %d is not on a European wheel", ErrInvalidPocket, value)
	}
	c := parseEntryColor(color)
	if !c.Known() {
		if strings.TrimSpace(color) != "" {
			return predictor.SpinResult{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
		c = games.PocketColor(value)
	}
	return predictor.SpinResult{Value: value, Color: c}, nil
}
