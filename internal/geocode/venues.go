package geocode

import "strings"

// Coordinates is a WGS84 pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Well-known venues resolved without a network lookup. Keys are matched as
// lowercase substrings of the record's location text.
var venueTable = map[string]Coordinates{
	"millennium park":            {41.8826, -87.6226},
	"grant park":                 {41.8763, -87.6190},
	"navy pier":                  {41.8917, -87.6086},
	"lincoln park zoo":           {41.9212, -87.6340},
	"chicago cultural center":    {41.8838, -87.6248},
	"harris theater":             {41.8838, -87.6219},
	"art institute":              {41.8796, -87.6237},
	"field museum":               {41.8663, -87.6170},
	"shedd aquarium":             {41.8676, -87.6140},
	"adler planetarium":          {41.8663, -87.6070},
	"museum of science":          {41.7906, -87.5830},
	"garfield park conservatory": {41.8863, -87.7172},
	"wrigley field":              {41.9484, -87.6553},
	"soldier field":              {41.8623, -87.6167},
	"united center":              {41.8807, -87.6742},
	"the green mill":             {41.9691, -87.6595},
	"chicago history museum":     {41.9119, -87.6316},
	"humboldt park":              {41.9030, -87.7020},
	"jackson park":               {41.7832, -87.5800},
	"washington park":            {41.7923, -87.6090},
}

// venueMatch resolves a location against the venue table by substring.
func venueMatch(location string) (Coordinates, bool) {
	lower := strings.ToLower(location)
	for venue, coords := range venueTable {
		if strings.Contains(lower, venue) {
			return coords, true
		}
	}
	return Coordinates{}, false
}
