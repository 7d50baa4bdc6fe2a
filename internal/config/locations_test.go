package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	payload := `[
		{
			"store": "024",
			"toastGuid": "store-guid-024",
			"timezone": "America/Chicago",
			"tippedJobs": ["SRV", "BAR"],
			"wageInfo": {"minWage": 7.25, "tippedMin": 2.60}
		},
		{
			"store": "031",
			"toastGuid": "store-guid-031",
			"timezone": "America/New_York",
			"weekStart": 1,
			"tippedJobs": [],
			"wageInfo": {"minWage": 15.00, "tippedMin": 15.00}
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	locations, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	first := locations[0]
	assert.Equal(t, "024", first.Store)
	assert.Equal(t, []string{"SRV", "BAR"}, first.TippedJobs)
	assert.Equal(t, "7.25", first.WageInfo.MinWage.String())
	assert.Equal(t, "2.6", first.WageInfo.TippedMin.String())
	assert.Equal(t, time.Wednesday, first.WeekStartWeekday(), "week start defaults to Wednesday")

	assert.Equal(t, time.Monday, locations[1].WeekStartWeekday())
}

func TestLoadLocationsRejectsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"store": ""}]`), 0o644))

	_, err := LoadLocations(path)
	assert.Error(t, err)
}

func TestLoadLocationsMissingFile(t *testing.T) {
	_, err := LoadLocations(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
