package models

import "fmt"

// Region is one of the fixed sales regions. The zero value is never produced
// by ingestion, so a filter holding it matches nothing.
type Region uint8

const (
	RegionUnknown Region = iota
	RegionNorth
	RegionEast
	RegionSouth
	RegionWest
)

var regionNames = [...]string{"unknown", "north", "east", "south", "west"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return regionNames[RegionUnknown]
}

// AllRegions returns the known regions in display order.
func AllRegions() []Region {
	return []Region{RegionNorth, RegionEast, RegionSouth, RegionWest}
}

// ParseRegion maps an exact lower-case region name to its Region.
func ParseRegion(s string) (Region, error) {
	for _, r := range AllRegions() {
		if regionNames[r] == s {
			return r, nil
		}
	}
	return RegionUnknown, fmt.Errorf("unknown region %q", s)
}

func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(text []byte) error {
	parsed, err := ParseRegion(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
