package advisory

// Band is the three-tier classification derived from a 0-100 risk score.
// Labels follow the product's display language; Key is the stable ASCII form.
type Band struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	BandLow    = Band{Key: "low", Label: "Düşük", Color: "green"}
	BandMedium = Band{Key: "medium", Label: "Orta", Color: "amber"}
	BandHigh   = Band{Key: "high", Label: "Yüksek", Color: "red"}
)

// BandFor maps a score to its band: <30 low, <60 medium, else high.
// This is the single shared rule; every display path must go through it.
func BandFor(score int) Band {
	switch {
	case score < 30:
		return BandLow
	case score < 60:
		return BandMedium
	default:
		return BandHigh
	}
}
