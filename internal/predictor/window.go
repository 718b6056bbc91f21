package predictor

import "github.com/shopspring/decimal"

const (
	// MinHistory is the calibration floor; shorter histories get no statistics.
	MinHistory = 3
	// RecentSize bounds the short-term window used for colour signals.
	RecentSize = 15
)

// Window is the read-only view a Rule inspects. Statistics are computed on
// first use so that rules earlier in the cascade never pay for later ones.
type Window struct {
	history []SpinResult
	recent  []SpinResult

	ratioDone bool
	redRatio  decimal.Decimal

	hotDone bool
	hot     uint32
	hotOK   bool
}

func newWindow(history []SpinResult) *Window {
	n := len(history)
	if n > RecentSize {
		n = RecentSize
	}
	return &Window{history: history, recent: history[:n]}
}

// History is the full input, most recent first.
func (w *Window) History() []SpinResult { return w.history }

// Recent is the first min(len(history), RecentSize) spins.
func (w *Window) Recent() []SpinResult { return w.recent }

// Latest returns history[0].
func (w *Window) Latest() (SpinResult, bool) {
	if len(w.history) == 0 {
		return SpinResult{}, false
	}
	return w.history[0], true
}

// RedRatio is red_count / len(recent). ok is false for an empty window.
func (w *Window) RedRatio() (ratio decimal.Decimal, ok bool) {
	if len(w.recent) == 0 {
		return decimal.Zero, false
	}
	if !w.ratioDone {
		red := 0
		for _, s := range w.recent {
			if s.Color == ColorRed {
				red++
			}
		}
		w.redRatio = decimal.NewFromInt(int64(red)).Div(decimal.NewFromInt(int64(len(w.recent))))
		w.ratioDone = true
	}
	return w.redRatio, true
}

// HotNumber returns the most frequent value over the whole history. Among
// values sharing the top count, the one seen most recently wins.
func (w *Window) HotNumber() (uint32, bool) {
	if w.hotDone {
		return w.hot, w.hotOK
	}
	w.hotDone = true

	counts := make(map[uint32]int, len(w.history))
	order := make([]uint32, 0, len(w.history))
	for _, s := range w.history {
		if counts[s.Value] == 0 {
			order = append(order, s.Value)
		}
		counts[s.Value]++
	}

	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			w.hot = v
			w.hotOK = true
		}
	}
	return w.hot, w.hotOK
}
