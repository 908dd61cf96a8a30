// Package cache persists monthly prayer-time records.
//
// # Overview
//
// The store keeps one JSON slot per (year, month, rounded coordinates)
// under ~/.salat/cache/YYYY/MM/. A slot is always written wholesale by a
// full-month recomputation and never mutated field by field; writing a new
// slot for the same key replaces the previous one.
//
// # Slot File Structure
//
//	{
//	  "month": 3, "year": 2026,
//	  "latitude": 40.0, "longitude": -75.0,
//	  "fetchedAt": "2026-03-02T09:15:00Z",
//	  "dailyTimes": [ { "date": "2026-03-01", ..., "times": {...} }, ... ]
//	}
//
// dailyTimes holds exactly one entry per calendar day of the month, in
// ascending date order.
//
// # Validity Rules
//
// A slot only ever serves its own calendar month. Within the month it is
// fresh for seven days after fetchedAt; after that it degrades to a
// fallback that is used only when the location source is unavailable.
package cache

import (
	"math"
	"time"

	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// MonthlyRecord is the persisted cache slot: a full month of daily records
// computed for one location.
type MonthlyRecord struct {
	Month     int                  `json:"month"` // 1-12
	Year      int                  `json:"year"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	FetchedAt time.Time            `json:"fetchedAt"`
	Days      []prayer.DailyRecord `json:"dailyTimes"` // one per calendar day, ascending
}

// Day returns the record matching the given calendar day, or nil when the
// day is not covered by this month.
func (r *MonthlyRecord) Day(date time.Time) *prayer.DailyRecord {
	for i := range r.Days {
		if core.SameDay(r.Days[i].Date, date) {
			return &r.Days[i]
		}
	}
	return nil
}

// Coordinates returns the position every day in the slot was computed for.
func (r *MonthlyRecord) Coordinates() prayer.Coordinates {
	return prayer.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Key identifies a cache slot. Coordinates are rounded to two decimals
// (roughly a kilometre) so that jitter in a location fix does not fragment
// the cache.
type Key struct {
	Year      int
	Month     time.Month
	Latitude  float64
	Longitude float64
}

// KeyFor builds the slot key for a date and position.
func KeyFor(date time.Time, coords prayer.Coordinates) Key {
	return Key{
		Year:      date.Year(),
		Month:     date.Month(),
		Latitude:  roundCoord(coords.Latitude),
		Longitude: roundCoord(coords.Longitude),
	}
}

// KeyOf returns the key a stored record belongs under.
func KeyOf(r *MonthlyRecord) Key {
	return Key{
		Year:      r.Year,
		Month:     time.Month(r.Month),
		Latitude:  roundCoord(r.Latitude),
		Longitude: roundCoord(r.Longitude),
	}
}

func roundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

// Store is the interface for monthly-record persistence.
// The filesystem implementation is the default; MemoryStore backs tests.
type Store interface {
	// Load returns the slot for the key, or nil when no slot exists.
	// A non-nil error means the slot was present but unreadable; callers
	// treat that as absence and surface a warning.
	Load(key Key) (*MonthlyRecord, error)

	// LoadLatest returns the most recently fetched slot regardless of
	// key, or nil when the cache is empty. Used when the current
	// location is unknown.
	LoadLatest() (*MonthlyRecord, error)

	// Save persists the record atomically under its own key.
	Save(record *MonthlyRecord) error

	// Path returns the storage path for the given key (for debugging).
	Path(key Key) string
}
