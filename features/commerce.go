package features

import "github.com/glasslink/skillrt/types"

// RetailBuilder encodes shopping payloads: price, inventory, cart
// state, and lexical signals from the product description.
type RetailBuilder struct{}

func (RetailBuilder) Name() string { return "retail" }

func (RetailBuilder) Build(p types.Payload, dim int) []float64 {
	price := p.NumberOr("price", 0)
	discount := p.NumberOr("discountPct", 0)
	desc := p.TextOr("product", "")

	signals := []float64{
		price,
		discount,
		price * (1 - discount/100),
		p.NumberOr("stock", 0),
		p.NumberOr("cartSize", 0),
		p.NumberOr("rating", 0),
		p.Flag("memberPricing"),
		p.Flag("inStore"),
		tokenCount(desc),
		lengthBucket(desc),
		keywordFlag(desc, "sale", "限时", "clearance", "折扣"),
		listOverlap(p.List("categories"), "grocery", "electronics", "apparel", "生鲜"),
	}
	return fit(signals, dim)
}

// LogisticsBuilder encodes delivery payloads: distance, weight,
// deadline pressure, and route descriptors.
type LogisticsBuilder struct{}

func (LogisticsBuilder) Name() string { return "logistics" }

func (LogisticsBuilder) Build(p types.Payload, dim int) []float64 {
	distance := p.NumberOr("distanceKm", 0)
	weight := p.NumberOr("weightKg", 0)
	route := p.TextOr("route", "")

	signals := []float64{
		distance,
		weight,
		p.NumberOr("stops", 0),
		p.NumberOr("deadlineHours", 0),
		p.NumberOr("vehicleCapacity", 0),
		p.Flag("fragile"),
		p.Flag("coldChain"),
		p.Flag("express"),
		lengthBucket(route),
		keywordFlag(route, "highway", "高速", "urban", "市区"),
		float64(len(p.List("waypoints"))),
	}
	return fit(signals, dim)
}
