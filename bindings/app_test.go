package bindings

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/roulette-oracle-desktop/internal/engine"
	"github.com/MJE43/roulette-oracle-desktop/internal/games"
	"github.com/MJE43/roulette-oracle-desktop/internal/livehttp"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
	"github.com/MJE43/roulette-oracle-desktop/internal/session"
)

var testSeeds = games.Seeds{Server: "test_server", Client: "test_client"}

func newApp(t *testing.T) (*App, *[]string) {
	t.Helper()
	var events []string
	a := New(session.NewHistory(0), Options{
		Seeds: testSeeds,
		Emit: func(name string, _ ...any) {
			events = append(events, name)
		},
	})
	a.Startup(context.Background())
	return a, &events
}

func TestPredictNextMove(t *testing.T) {
	a, _ := newApp(t)

	assert.Equal(t, predictor.MsgCalibration, a.PredictNextMove(nil))
	assert.Equal(t,
		"Streak of 3 REDs. Trend following protocol: Bet RED.",
		a.PredictNextMove([]predictor.SpinResult{
			{Value: 5, Color: predictor.ColorRed},
			{Value: 6, Color: predictor.ColorRed},
			{Value: 7, Color: predictor.ColorRed},
			{Value: 8, Color: predictor.ColorBlack},
			{Value: 10, Color: predictor.ColorBlack},
			{Value: 11, Color: predictor.ColorBlack},
		}))
}

func TestPredictReportsCalibrationProgress(t *testing.T) {
	a, _ := newApp(t)

	p := a.Predict()
	assert.Equal(t, 3, p.Needed)
	assert.Equal(t, predictor.RuleCalibration, p.Rule)

	_, err := a.AddManualSpin("RED", "")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Predict().Needed)

	for i := 0; i < 3; i++ {
		_, err := a.AddManualSpin("BLACK", "")
		require.NoError(t, err)
	}
	p = a.Predict()
	assert.Equal(t, 0, p.Needed)
	assert.Equal(t, 4, p.Spins)
	assert.NotEqual(t, predictor.RuleCalibration, p.Rule)
}

func TestSimulateSpinReplaysSeeds(t *testing.T) {
	a, events := newApp(t)

	spin, err := a.SimulateSpin()
	require.NoError(t, err)

	want := games.RouletteGame{}.Evaluate(testSeeds, 1).Result
	assert.Equal(t, want.Value, spin.Value)
	assert.Equal(t, want.Color, spin.Color)
	assert.Equal(t, uint64(1), spin.Nonce)
	assert.Equal(t, session.SourceSimulated, spin.Source)
	assert.Equal(t, []string{EventNewSpin}, *events)
	assert.Equal(t, uint64(1), a.GetSeedInfo().Nonce)
}

func TestAddManualSpinValidation(t *testing.T) {
	a, events := newApp(t)

	_, err := a.AddManualSpin("PURPLE", "3")
	assert.ErrorIs(t, err, session.ErrInvalidColor)
	_, err = a.AddManualSpin("RED", "99")
	assert.ErrorIs(t, err, session.ErrInvalidPocket)
	assert.Empty(t, *events)

	spin, err := a.AddManualSpin("GREEN", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), spin.Value)

	spin, err = a.AddManualSpin("red", "32")
	require.NoError(t, err)
	assert.Equal(t, uint32(32), spin.Value)
	assert.Equal(t, predictor.ColorRed, spin.Color)
	assert.Len(t, a.GetHistory(), 2)
}

func TestClearHistory(t *testing.T) {
	a, events := newApp(t)
	_, _ = a.SimulateSpin()
	_, _ = a.SimulateSpin()

	a.ClearHistory()
	assert.Empty(t, a.GetHistory())
	assert.Equal(t, 0, a.GetStats().TotalSpins)
	assert.Equal(t, EventCleared, (*events)[len(*events)-1])
}

func TestGetIngestInfo(t *testing.T) {
	a, _ := newApp(t)
	assert.Equal(t, livehttp.IngestInfo{}, a.GetIngestInfo())

	m := livehttp.NewModule(session.NewHistory(0), 17889, "", nil)
	b := New(session.NewHistory(0), Options{Seeds: testSeeds, Ingest: m})
	info := b.GetIngestInfo()
	assert.Equal(t, "http://127.0.0.1:17889", info.URL)
	assert.False(t, info.Running)
}

func TestRotateSeedsRevealsPrevious(t *testing.T) {
	a, _ := newApp(t)
	before := a.GetSeedInfo()
	assert.Equal(t, engine.HashServerSeed(testSeeds.Server), before.ServerSeedHash)

	_, _ = a.SimulateSpin()
	revealed, err := a.RotateSeeds()
	require.NoError(t, err)

	assert.Equal(t, testSeeds, revealed.Previous)
	assert.Equal(t, uint64(1), revealed.Nonce)
	assert.Equal(t, uint64(0), revealed.Next.Nonce)
	assert.NotEqual(t, before.ServerSeedHash, revealed.Next.ServerSeedHash)
	assert.Equal(t, revealed.Next, a.GetSeedInfo())
}

func TestRotateSeedsAccountsForEverySpin(t *testing.T) {
	a := New(session.NewHistory(0), Options{Seeds: testSeeds})

	const spinners, perSpinner = 8, 25
	var (
		wg       sync.WaitGroup
		revealed []RevealedSeeds
	)
	for i := 0; i < spinners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSpinner; j++ {
				_, err := a.SimulateSpin()
				assert.NoError(t, err)
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			r, err := a.RotateSeeds()
			assert.NoError(t, err)
			revealed = append(revealed, r)
		}
	}()
	wg.Wait()
	<-done

	// Every spin drawn must be covered by the nonce revealed for its seed
	// pair or by the live pair's nonce.
	total := a.GetSeedInfo().Nonce
	for _, r := range revealed {
		total += r.Nonce
	}
	assert.Equal(t, uint64(spinners*perSpinner), total)
	assert.Len(t, a.GetHistory(), spinners*perSpinner)
}
