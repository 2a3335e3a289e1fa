package domain

import "github.com/shopspring/decimal"

// DrawdownLevel is the severity tier of the decline from peak invested assets.
type DrawdownLevel int

const (
	DrawdownNormal DrawdownLevel = iota
	DrawdownWarning
	DrawdownConcern
	DrawdownCrisis
)

func (l DrawdownLevel) String() string {
	switch l {
	case DrawdownNormal:
		return "normal"
	case DrawdownWarning:
		return "warning"
	case DrawdownConcern:
		return "concern"
	case DrawdownCrisis:
		return "crisis"
	default:
		return "unknown"
	}
}

// MarshalText lets levels serialize by name in JSON and YAML.
func (l DrawdownLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// DrawdownState tracks the running peak of invested assets and the current tier.
type DrawdownState struct {
	PeakAssets decimal.Decimal `json:"peak_assets"`
	Drawdown   decimal.Decimal `json:"drawdown"`
	Level      DrawdownLevel   `json:"level"`
}
