package games

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"sync"

	"github.com/MJE43/roulette-oracle-desktop/internal/engine"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
)

// Pockets is the number of pockets on a European wheel (0-36).
const Pockets = 37

var redPockets = map[uint32]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// PocketColor returns the colour of a European pocket. Values above 36 are
// not on the wheel and map to ColorUnknown.
func PocketColor(pocket uint32) predictor.Color {
	switch {
	case pocket == 0:
		return predictor.ColorGreen
	case pocket >= Pockets:
		return predictor.ColorUnknown
	case redPockets[pocket]:
		return predictor.ColorRed
	default:
		return predictor.ColorBlack
	}
}

// Seeds is a provably-fair seed pair. The server seed is used as ASCII, not hex-decoded.
type Seeds struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// NewSeeds draws a fresh random seed pair.
func NewSeeds() (Seeds, error) {
	server, err := randomHex(32)
	if err != nil {
		return Seeds{}, fmt.Errorf("server seed: %w", err)
	}
	client, err := randomHex(10)
	if err != nil {
		return Seeds{}, fmt.Errorf("client seed: %w", err)
	}
	return Seeds{Server: server, Client: client}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Outcome is one evaluated roulette round.
type Outcome struct {
	Nonce    uint64               `json:"nonce"`
	RawFloat float64              `json:"raw_float"`
	Result   predictor.SpinResult `json:"result"`
}

// RouletteGame evaluates European roulette rounds.
type RouletteGame struct{}

// Evaluate determines which pocket the ball lands in for nonce.
func (g RouletteGame) Evaluate(seeds Seeds, nonce uint64) Outcome {
	f := engine.Floats(seeds.Server, seeds.Client, nonce, 0, 1)[0]
	return g.EvaluateFloat(f, nonce)
}

// EvaluateFloat maps a pre-computed float to a pocket: floor(f * 37).
func (RouletteGame) EvaluateFloat(f float64, nonce uint64) Outcome {
	pocket := uint32(math.Floor(f * Pockets))
	if pocket >= Pockets {
		pocket = Pockets - 1
	}
	return Outcome{
		Nonce:    nonce,
		RawFloat: f,
		Result:   predictor.SpinResult{Value: pocket, Color: PocketColor(pocket)},
	}
}

// Simulator produces consecutive rounds for one seed pair. Safe for concurrent use.
type Simulator struct {
	mu    sync.Mutex
	game  RouletteGame
	seeds Seeds
	nonce uint64
}

// NewSimulator starts at nonce 1; the first call to Next evaluates nonce 1.
func NewSimulator(seeds Seeds) *Simulator {
	return &Simulator{seeds: seeds}
}

// Next evaluates the next nonce.
func (s *Simulator) Next() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonce++
	return s.game.Evaluate(s.seeds, s.nonce)
}

// Nonce returns the last evaluated nonce (0 before the first spin).
func (s *Simulator) Nonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// ServerSeedHash is the commitment shown to the player before seeds are revealed.
func (s *Simulator) ServerSeedHash() string {
	return engine.HashServerSeed(s.seeds.Server)
}

// Seeds reveals the seed pair.
func (s *Simulator) Seeds() Seeds { return s.seeds }
