package core

// ReferenceAnnualEnergy is the annual sum, in kWh, every standard load profile is normalized to.
const ReferenceAnnualEnergy = 1000.0

// NormalizationTolerance is the accepted relative deviation of a category's annual sum
// from ReferenceAnnualEnergy.
const NormalizationTolerance = 0.01

// UnknownCategoryName is shown for categories the catalog does not describe.
const UnknownCategoryName = "unknown"

// IntervalsPerDay is the number of quarter-hour rows in a full day.
const IntervalsPerDay = 96

type CategoryInfo struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

type Granularity string

const (
	GranularityDay        Granularity = "day"
	GranularityMonth      Granularity = "month"
	GranularityYearMonths Granularity = "year-months"
	GranularityYearDays   Granularity = "year-days"
)

var ValidGranularities = []Granularity{
	GranularityDay,
	GranularityMonth,
	GranularityYearMonths,
	GranularityYearDays,
}

func (g Granularity) Label() string {
	switch g {
	case GranularityDay:
		return "Day"
	case GranularityMonth:
		return "Month"
	case GranularityYearMonths:
		return "Year by month"
	case GranularityYearDays:
		return "Year by day"
	default:
		return "Day"
	}
}

func ParseGranularity(s string) Granularity {
	for _, g := range ValidGranularities {
		if string(g) == s {
			return g
		}
	}
	return GranularityDay
}

// NextGranularity returns the next granularity in the cycle.
func NextGranularity(current Granularity) Granularity {
	for i, g := range ValidGranularities {
		if g == current {
			return ValidGranularities[(i+1)%len(ValidGranularities)]
		}
	}
	return ValidGranularities[0]
}

// ScalingFactor converts reference-profile energy into energy for a consumer
// with the given annual consumption.
func ScalingFactor(yearlySum float64) float64 {
	return yearlySum / ReferenceAnnualEnergy
}
