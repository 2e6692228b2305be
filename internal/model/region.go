package model

import "strings"

// Region is the coarse market a free-form geography falls into.
type Region int

const (
	RegionUnknown Region = iota
	RegionNorthAmerica
	RegionEurope
	RegionAsia
	RegionEmerging
)

var emergingKeywords = []string{"emerging", "latam", "latin america", "africa", "frontier"}

// ClassifyRegion maps a free-form geography to a region. Emerging markets
// win over the continent they sit on.
func ClassifyRegion(geo string) Region {
	g := strings.ToLower(strings.TrimSpace(geo))
	switch {
	case g == "":
		return RegionUnknown
	case containsAny(g, emergingKeywords):
		return RegionEmerging
	case strings.Contains(g, "north america"), g == "us", g == "usa", g == "united states", g == "canada":
		return RegionNorthAmerica
	case strings.Contains(g, "europe"), g == "uk", g == "united kingdom", g == "eu":
		return RegionEurope
	case strings.Contains(g, "asia"), strings.Contains(g, "apac"):
		return RegionAsia
	}
	return RegionUnknown
}

// Label is the narrative name of the region.
func (r Region) Label() string {
	switch r {
	case RegionNorthAmerica:
		return "North America"
	case RegionEurope:
		return "Europe"
	case RegionAsia:
		return "Asia"
	case RegionEmerging:
		return "emerging markets"
	}
	return "an unclassified region"
}

// Region classifies the opportunity's geography.
func (o Opportunity) Region() Region { return ClassifyRegion(o.Geography) }

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
