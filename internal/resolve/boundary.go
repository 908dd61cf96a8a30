package resolve

import (
	"time"

	"github.com/msharif/salat-cli-go/internal/cache"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// resolveBoundaryDay returns the record for date from the month sequence.
// When the date falls outside the cached month (tomorrow on the last day
// of a month), the single day is computed directly with the coordinates
// that produced the record, which keeps the pair of served days in one
// location context. The boundary day is never cached; it is needed at
// most once per day.
func resolveBoundaryDay(calc prayer.Calculator, coords prayer.Coordinates, date time.Time, record *cache.MonthlyRecord, s prayer.Settings) (*prayer.DailyRecord, error) {
	if rec := record.Day(date); rec != nil {
		return rec, nil
	}
	return calc.Compute(coords, date, s)
}
