package predictor

import "encoding/json"

// Color is the colour category of a roulette pocket.
type Color uint8

const (
	// ColorUnknown covers anything the boundary could not map to a wheel colour.
	// It counts as neither RED nor BLACK.
	ColorUnknown Color = iota
	ColorRed
	ColorBlack
	ColorGreen
)

var colorNames = map[Color]string{
	ColorUnknown: "UNKNOWN",
	ColorRed:     "RED",
	ColorBlack:   "BLACK",
	ColorGreen:   "GREEN",
}

// String returns the wire name ("RED", "BLACK", "GREEN" or "UNKNOWN").
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return colorNames[ColorUnknown]
}

// Known reports whether c is one of the three wheel colours.
func (c Color) Known() bool {
	return c == ColorRed || c == ColorBlack || c == ColorGreen
}

// ParseColor maps a wire colour name to a Color. Only the exact upper-case
// names match; anything else yields ColorUnknown.
func ParseColor(s string) Color {
	switch s {
	case "RED":
		return ColorRed
	case "BLACK":
		return ColorBlack
	case "GREEN":
		return ColorGreen
	default:
		return ColorUnknown
	}
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON never fails: a non-string or unrecognised value decodes to ColorUnknown.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = ColorUnknown
		return nil
	}
	*c = ParseColor(s)
	return nil
}

// SpinResult is one completed spin as supplied by the host.
type SpinResult struct {
	Value uint32 `json:"value"`
	Color Color  `json:"color"`
}
