package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombinedLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]Location{
		"MAIN_A-101": {Building: "MAIN_A", Room: "101"},
		"DEH 120":    {Building: "DEH", Room: "120"},
		"GYM":        {Building: "GYM", Room: LocationTBA},
		"":           {Building: LocationTBA, Room: LocationTBA},
		"tba":        {Building: LocationTBA, Room: LocationTBA},
		"ONLINE WEB": {Building: LocationOnline, Room: LocationOnline, Online: true},
		"web":        {Building: LocationOnline, Room: LocationOnline, Online: true},
	}
	for in, want := range cases {
		got, err := ParseCombinedLocation(Row{FieldLocation: in})
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestParseSplitLocation(t *testing.T) {
	t.Parallel()

	got, err := ParseSplitLocation(Row{FieldBuilding: "MAIN_A", FieldRoom: "101"})
	require.NoError(t, err)
	assert.Equal(t, Location{Building: "MAIN_A", Room: "101"}, got)

	got, err = ParseSplitLocation(Row{FieldBuilding: "MAIN_A"})
	require.NoError(t, err)
	assert.Equal(t, LocationTBA, got.Room)

	got, err = ParseSplitLocation(Row{FieldBuilding: "Online"})
	require.NoError(t, err)
	assert.True(t, got.Online)
}

func TestDropOnline(t *testing.T) {
	t.Parallel()

	rows := []Row{{FieldLocation: "A-1"}, {FieldLocation: "ONLINE"}, {FieldLocation: "B-2"}}
	kept, err := DropOnline(rows, ParseCombinedLocation)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "B-2", kept[1][FieldLocation])
}
