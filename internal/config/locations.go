package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWeekStart is Wednesday, matching the payroll week of the legacy
// exports this system replaces.
const DefaultWeekStart = 3

// Location is the per-store configuration consumed by an aggregation run.
type Location struct {
	Store      string   `json:"store"`     // 3 character store number
	ToastGUID  string   `json:"toastGuid"` // vendor restaurant identifier
	Timezone   string   `json:"timezone"`  // IANA name
	WeekStart  *int     `json:"weekStart"` // weekday index, Sunday = 0
	TippedJobs []string `json:"tippedJobs"`
	WageInfo   WageInfo `json:"wageInfo"`
}

// WageInfo holds the wage floor figures used to derive the tip credit.
// Parsed as decimals so cent precision survives the JSON round trip.
type WageInfo struct {
	MinWage   decimal.Decimal `json:"minWage"`
	TippedMin decimal.Decimal `json:"tippedMin"`
}

// WeekStartWeekday returns the configured payroll week start.
func (l Location) WeekStartWeekday() time.Weekday {
	if l.WeekStart == nil {
		return time.Weekday(DefaultWeekStart)
	}
	return time.Weekday(*l.WeekStart)
}

// LoadLocations reads the location table from a JSON file.
func LoadLocations(path string) ([]Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}
	var locations []Location
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse locations file %s: %w", path, err)
	}
	for _, l := range locations {
		if l.Store == "" {
			return nil, fmt.Errorf("locations file %s: entry with empty store code", path)
		}
	}
	return locations, nil
}
