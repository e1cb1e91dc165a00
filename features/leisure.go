package features

import "github.com/glasslink/skillrt/types"

// EntertainmentBuilder encodes media payloads: watch history stats and
// title text signals.
type EntertainmentBuilder struct{}

func (EntertainmentBuilder) Name() string { return "entertainment" }

func (EntertainmentBuilder) Build(p types.Payload, dim int) []float64 {
	title := p.TextOr("title", "")
	signals := []float64{
		p.NumberOr("watchMinutes", 0),
		p.NumberOr("rating", 0),
		p.NumberOr("releaseYear", 0),
		p.NumberOr("episodesLeft", 0),
		p.Flag("subtitles"),
		p.Flag("liveEvent"),
		tokenCount(title),
		lengthBucket(title),
		keywordFlag(title, "live", "直播", "concert", "演唱会"),
		listOverlap(p.List("genres"), "comedy", "喜剧", "drama", "sci-fi", "科幻"),
	}
	return fit(signals, dim)
}

// HospitalityBuilder encodes dining/lodging payloads: party size,
// occupancy, and request text signals.
type HospitalityBuilder struct{}

func (HospitalityBuilder) Name() string { return "hospitality" }

func (HospitalityBuilder) Build(p types.Payload, dim int) []float64 {
	request := p.TextOr("request", "")
	signals := []float64{
		p.NumberOr("partySize", 0),
		p.NumberOr("nights", 0),
		p.NumberOr("roomRate", 0),
		p.NumberOr("occupancyPct", 0),
		p.NumberOr("loyaltyTier", 0),
		p.Flag("vipGuest"),
		p.Flag("breakfastIncluded"),
		tokenCount(request),
		lengthBucket(request),
		keywordFlag(request, "allergy", "过敏", "late checkout", "延迟退房"),
		float64(len(p.List("amenities"))),
	}
	return fit(signals, dim)
}
