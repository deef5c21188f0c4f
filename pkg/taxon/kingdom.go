package taxon

import "strings"

// AllKingdoms is the kingdom filter value that disables filtering.
const AllKingdoms = "all"

var kingdomPriority = map[string]int{
	"animalia":  1,
	"plantae":   2,
	"fungi":     3,
	"bacteria":  4,
	"archaea":   5,
	"protista":  6,
	"chromista": 7,
}

// KingdomPriority gives the sort position of a kingdom. Unknown kingdoms
// go last.
func KingdomPriority(kingdom string) int {
	if p, ok := kingdomPriority[NameKey(kingdom)]; ok {
		return p
	}
	return 99
}

// MatchKingdom reports if a kingdom passes a filter. Empty filter and
// AllKingdoms match everything.
func MatchKingdom(kingdom, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, AllKingdoms) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(kingdom), filter)
}
