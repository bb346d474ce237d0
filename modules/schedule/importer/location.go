package importer

import (
	"strings"
)

const (
	LocationTBA    = "TBA"
	LocationOnline = "ONLINE"
)

// Location is the structured building/room breakdown of a row.
type Location struct {
	Building string
	Room     string
	Online   bool
}

// LocationParser derives a Location from a row. Each driver variant picks the
// parser matching how its source spells locations.
type LocationParser func(row Row) (Location, error)

var onlineMarkers = map[string]struct{}{
	"ONLINE": {},
	"WEB":    {},
	"INET":   {},
	"REMOTE": {},
}

var unassignedMarkers = map[string]struct{}{
	"":    {},
	"TBA": {},
	"TBD": {},
	"ARR": {},
}

func specialLocation(building string) (Location, bool) {
	up := strings.ToUpper(strings.TrimSpace(building))
	if _, ok := unassignedMarkers[up]; ok {
		return Location{Building: LocationTBA, Room: LocationTBA}, true
	}
	if _, ok := onlineMarkers[up]; ok || strings.HasPrefix(up, "ONLINE") {
		return Location{Building: LocationOnline, Room: LocationOnline, Online: true}, true
	}
	return Location{}, false
}

// ParseCombinedLocation reads a single location cell such as "MAIN_A-101" or
// "DEH 120", split at the last dash or space.
func ParseCombinedLocation(row Row) (Location, error) {
	raw := asString(row[FieldLocation])
	if loc, ok := specialLocation(raw); ok {
		return loc, nil
	}
	i := strings.LastIndexAny(raw, "- ")
	if i <= 0 || i == len(raw)-1 {
		return Location{Building: raw, Room: LocationTBA}, nil
	}
	building := strings.TrimSpace(raw[:i])
	room := strings.TrimSpace(raw[i+1:])
	if building == "" {
		return Location{Building: raw, Room: LocationTBA}, nil
	}
	return Location{Building: building, Room: room}, nil
}

// ParseSplitLocation reads separate building and room cells.
func ParseSplitLocation(row Row) (Location, error) {
	building := asString(row[FieldBuilding])
	if loc, ok := specialLocation(building); ok {
		return loc, nil
	}
	room := asString(row[FieldRoom])
	if _, ok := unassignedMarkers[strings.ToUpper(room)]; ok {
		room = LocationTBA
	}
	return Location{Building: building, Room: room}, nil
}

// DropOnline removes rows whose location is online.
func DropOnline(rows []Row, parse LocationParser) ([]Row, error) {
	out := rows[:0]
	for _, row := range rows {
		loc, err := parse(row)
		if err != nil {
			return nil, err
		}
		if loc.Online {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
