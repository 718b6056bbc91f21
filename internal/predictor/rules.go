package predictor

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rule IDs, in cascade order.
const (
	RuleCalibration  = "calibration"
	RuleRedStreak    = "red-streak"
	RuleBlackStreak  = "black-streak"
	RuleGreenEvent   = "green-event"
	RuleTripleRepeat = "triple-repeat"
	RuleHotNumber    = "hot-number"
	RuleInconclusive = "inconclusive"
)

const (
	MsgCalibration  = "Not enough data. Spin more to calibrate the local algorithm."
	MsgGreenEvent   = "Green event detected. Volatility high. Recommend skipping or minimal bet."
	MsgInconclusive = "Pattern analysis inconclusive. Maintain current strategy."
)

var (
	redThreshold   = decimal.RequireFromString("0.65")
	blackThreshold = decimal.RequireFromString("0.35")
	hundred        = decimal.NewFromInt(100)
)

// Rule is one step of the decision cascade.
type Rule interface {
	ID() string
	// Match reports whether the rule applies to w.
	Match(w *Window) bool
	// Advise renders the recommendation. Only called after Match returned true.
	Advise(w *Window) string
}

type rule struct {
	id     string
	match  func(w *Window) bool
	advise func(w *Window) string
}

func (r rule) ID() string              { return r.id }
func (r rule) Match(w *Window) bool    { return r.match(w) }
func (r rule) Advise(w *Window) string { return r.advise(w) }

// percent renders d*100 with no decimals, rounding exact halves to even.
func percent(d decimal.Decimal) string {
	return d.Mul(hundred).RoundBank(0).String()
}

var calibrationRule = rule{
	id:     RuleCalibration,
	match:  func(w *Window) bool { return len(w.History()) < MinHistory },
	advise: func(*Window) string { return MsgCalibration },
}

var redStreakRule = rule{
	id: RuleRedStreak,
	match: func(w *Window) bool {
		ratio, ok := w.RedRatio()
		return ok && ratio.GreaterThan(redThreshold)
	},
	advise: func(w *Window) string {
		ratio, _ := w.RedRatio()
		return fmt.Sprintf("Detected RED streak (%s%%). Statistical pressure suggests betting BLACK.", percent(ratio))
	},
}

var blackStreakRule = rule{
	id: RuleBlackStreak,
	match: func(w *Window) bool {
		ratio, ok := w.RedRatio()
		return ok && ratio.LessThan(blackThreshold)
	},
	advise: func(w *Window) string {
		ratio, _ := w.RedRatio()
		return fmt.Sprintf("Detected BLACK streak (%s%%). Statistical pressure suggests betting RED.", percent(decimal.NewFromInt(1).Sub(ratio)))
	},
}

var greenEventRule = rule{
	id: RuleGreenEvent,
	match: func(w *Window) bool {
		last, ok := w.Latest()
		return ok && last.Color == ColorGreen
	},
	advise: func(*Window) string { return MsgGreenEvent },
}

// UNKNOWN never forms a streak even when three in a row share it.
var tripleRepeatRule = rule{
	id: RuleTripleRepeat,
	match: func(w *Window) bool {
		r := w.Recent()
		if len(r) < 3 {
			return false
		}
		c := r[0].Color
		return c.Known() && r[1].Color == c && r[2].Color == c
	},
	advise: func(w *Window) string {
		c := w.Recent()[0].Color
		return fmt.Sprintf("Streak of 3 %ss. Trend following protocol: Bet %s.", c, c)
	},
}

var hotNumberRule = rule{
	id: RuleHotNumber,
	match: func(w *Window) bool {
		_, ok := w.HotNumber()
		return ok
	},
	advise: func(w *Window) string {
		n, _ := w.HotNumber()
		return fmt.Sprintf("Market flat. Hot number is %d. Consider sector bets around it.", n)
	},
}

var inconclusiveRule = rule{
	id:     RuleInconclusive,
	match:  func(*Window) bool { return true },
	advise: func(*Window) string { return MsgInconclusive },
}
