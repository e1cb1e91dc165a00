package features

import "github.com/glasslink/skillrt/types"

// AgricultureBuilder encodes field-survey payloads: crop metrics,
// weather, and soil readings.
type AgricultureBuilder struct{}

func (AgricultureBuilder) Name() string { return "agriculture" }

func (AgricultureBuilder) Build(p types.Payload, dim int) []float64 {
	notes := p.TextOr("fieldNotes", "")
	signals := []float64{
		p.NumberOr("areaHectares", 0),
		p.NumberOr("soilMoisture", 0),
		p.NumberOr("soilPH", 0),
		p.NumberOr("temperatureC", 0),
		p.NumberOr("rainfallMm", 0),
		p.NumberOr("cropAgeDays", 0),
		p.Flag("irrigated"),
		p.Flag("pestAlert"),
		lengthBucket(notes),
		keywordFlag(notes, "blight", "病害", "weed", "杂草"),
		listOverlap(p.List("crops"), "rice", "水稻", "wheat", "小麦", "corn", "玉米"),
	}
	return fit(signals, dim)
}

// EnergyBuilder encodes consumption payloads: meter readings, tariff
// windows, and appliance state.
type EnergyBuilder struct{}

func (EnergyBuilder) Name() string { return "energy" }

func (EnergyBuilder) Build(p types.Payload, dim int) []float64 {
	usage := p.NumberOr("usageKwh", 0)
	baseline := p.NumberOr("baselineKwh", 0)
	drift := 0.0
	if baseline > 0 {
		drift = usage / baseline
	}

	signals := []float64{
		usage,
		baseline,
		drift,
		p.NumberOr("tariffCents", 0),
		p.NumberOr("peakHours", 0),
		p.NumberOr("solarKwh", 0),
		p.Flag("peakWindow"),
		p.Flag("batteryCharging"),
		float64(len(p.List("appliances"))),
		keywordFlag(p.TextOr("alert", ""), "overload", "过载", "outage", "停电"),
	}
	return fit(signals, dim)
}

// ManufacturingBuilder encodes line-inspection payloads: throughput,
// defect rate, and shift state.
type ManufacturingBuilder struct{}

func (ManufacturingBuilder) Name() string { return "manufacturing" }

func (ManufacturingBuilder) Build(p types.Payload, dim int) []float64 {
	produced := p.NumberOr("unitsProduced", 0)
	defects := p.NumberOr("defects", 0)
	defectRate := 0.0
	if produced > 0 {
		defectRate = defects / produced
	}

	signals := []float64{
		produced,
		defects,
		defectRate,
		p.NumberOr("lineSpeed", 0),
		p.NumberOr("shiftHour", 0),
		p.NumberOr("machineTempC", 0),
		p.Flag("maintenanceDue"),
		p.Flag("nightShift"),
		lengthBucket(p.TextOr("incident", "")),
		float64(len(p.List("stations"))),
	}
	return fit(signals, dim)
}
