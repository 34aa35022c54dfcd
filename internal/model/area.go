package model

// Area is one of the two fixed activity domains.
type Area string

const (
	AreaStudy    Area = "study"
	AreaFootball Area = "football"
)

// Areas lists every supported area in display order.
var Areas = []Area{AreaStudy, AreaFootball}

func (a Area) Valid() bool {
	return a == AreaStudy || a == AreaFootball
}

// Intensity is an optional effort marker on plans and logs.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// DefaultDurationMinutes is used when a plan is created without a duration.
const DefaultDurationMinutes = 45

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"
