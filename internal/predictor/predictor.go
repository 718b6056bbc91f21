// Package predictor turns a roulette spin history into a single betting
// recommendation. It is a pure function of its input: no state is kept
// between calls and the history is never modified.
package predictor

// Verdict is a recommendation together with the rule that produced it.
type Verdict struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Cascade is an ordered list of rules; the first match wins.
type Cascade []Rule

// DefaultCascade returns the standard rule order:
// calibration, red streak, black streak, green event, triple repeat,
// hot number, inconclusive.
func DefaultCascade() Cascade {
	return Cascade{
		calibrationRule,
		redStreakRule,
		blackStreakRule,
		greenEventRule,
		tripleRepeatRule,
		hotNumberRule,
		inconclusiveRule,
	}
}

// Evaluate runs the cascade against history (most recent first).
func (c Cascade) Evaluate(history []SpinResult) Verdict {
	w := newWindow(history)
	for _, r := range c {
		if r.Match(w) {
			return Verdict{Rule: r.ID(), Message: r.Advise(w)}
		}
	}
	return Verdict{Rule: RuleInconclusive, Message: MsgInconclusive}
}

// Evaluate runs the default cascade.
func Evaluate(history []SpinResult) Verdict {
	return DefaultCascade().Evaluate(history)
}

// Analyze returns the recommendation text for history. It always returns a
// non-empty string.
func Analyze(history []SpinResult) string {
	return Evaluate(history).Message
}
