package games

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
)

func TestPocketColor(t *testing.T) {
	reds, blacks := 0, 0
	for p := uint32(1); p <= 36; p++ {
		switch PocketColor(p) {
		case predictor.ColorRed:
			reds++
		case predictor.ColorBlack:
			blacks++
		default:
			t.Errorf("pocket %d has no wheel colour", p)
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, 18, blacks)

	assert.Equal(t, predictor.ColorGreen, PocketColor(0))
	assert.Equal(t, predictor.ColorRed, PocketColor(32))
	assert.Equal(t, predictor.ColorBlack, PocketColor(17))
	assert.Equal(t, predictor.ColorUnknown, PocketColor(37))
}

func TestEvaluateFloat(t *testing.T) {
	g := RouletteGame{}
	tests := []struct {
		f    float64
		want uint32
	}{
		{0, 0},
		{0.0269, 0},
		{0.0271, 1},
		{0.5, 18},
		{0.999999, 36},
	}
	for _, tt := range tests {
		out := g.EvaluateFloat(tt.f, 1)
		assert.Equalf(t, tt.want, out.Result.Value, "f=%v", tt.f)
		assert.Equal(t, PocketColor(tt.want), out.Result.Color)
	}
}

func TestEvaluateInRange(t *testing.T) {
	g := RouletteGame{}
	seeds := Seeds{Server: "test_server", Client: "test_client"}
	for nonce := uint64(1); nonce <= 500; nonce++ {
		out := g.Evaluate(seeds, nonce)
		require.Less(t, out.Result.Value, uint32(Pockets))
		require.True(t, out.Result.Color.Known())
		require.Equal(t, nonce, out.Nonce)
	}
}

func TestSimulatorReplaysSeeds(t *testing.T) {
	seeds := Seeds{Server: "server", Client: "client"}
	a := NewSimulator(seeds)
	b := NewSimulator(seeds)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
	assert.Equal(t, uint64(20), a.Nonce())
	assert.Equal(t, RouletteGame{}.Evaluate(seeds, 20), RouletteGame{}.Evaluate(a.Seeds(), a.Nonce()))
	assert.Len(t, a.ServerSeedHash(), 64)
}

func TestSimulatorConcurrentNonces(t *testing.T) {
	sim := NewSimulator(Seeds{Server: "s", Client: "c"})

	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- sim.Next().Nonce
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, 100)
	assert.Equal(t, uint64(100), sim.Nonce())
}

func TestNewSeeds(t *testing.T) {
	a, err := NewSeeds()
	require.NoError(t, err)
	b, err := NewSeeds()
	require.NoError(t, err)

	assert.Len(t, a.Server, 64)
	assert.Len(t, a.Client, 20)
	assert.NotEqual(t, a, b)
}
