package features

import "github.com/glasslink/skillrt/types"

// TravelBuilder encodes trip-planning payloads: party size, budget,
// dates, and destination text signals.
type TravelBuilder struct{}

func (TravelBuilder) Name() string { return "travel" }

func (TravelBuilder) Build(p types.Payload, dim int) []float64 {
	dest := p.TextOr("destination", "")
	budget := p.NumberOr("budget", 0)
	days := p.NumberOr("days", 0)
	perDay := 0.0
	if days > 0 {
		perDay = budget / days
	}

	signals := []float64{
		days,
		budget,
		perDay,
		p.NumberOr("travellers", 0),
		p.NumberOr("monthOfYear", 0),
		p.Flag("international"),
		p.Flag("hasVisa"),
		p.Flag("guidedTour"),
		tokenCount(dest),
		lengthBucket(dest),
		keywordFlag(dest, "beach", "海滩", "mountain", "山", "museum", "博物馆"),
		listOverlap(p.List("interests"), "food", "美食", "hiking", "history"),
	}
	return fit(signals, dim)
}
