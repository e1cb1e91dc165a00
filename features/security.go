package features

import "github.com/glasslink/skillrt/types"

// SecurityBuilder encodes home/site monitoring payloads: sensor
// counts, zone state, and alert text signals.
type SecurityBuilder struct{}

func (SecurityBuilder) Name() string { return "security" }

func (SecurityBuilder) Build(p types.Payload, dim int) []float64 {
	alert := p.TextOr("alert", "")
	signals := []float64{
		p.NumberOr("motionEvents", 0),
		p.NumberOr("doorEvents", 0),
		p.NumberOr("camerasOnline", 0),
		p.NumberOr("zonesArmed", 0),
		p.NumberOr("hourOfDay", 0),
		p.Flag("armed"),
		p.Flag("nightMode"),
		p.Flag("ownerHome"),
		tokenCount(alert),
		keywordFlag(alert, "intrusion", "入侵", "glass", "玻璃", "smoke", "烟雾"),
		float64(len(p.List("zones"))),
	}
	return fit(signals, dim)
}
