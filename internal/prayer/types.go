// Package prayer defines the prayer-time domain model and the solar
// calculator that produces it.
//
// # Events
//
// A day has a closed set of seven named instants: fajr, sunrise, dhuhr,
// asr, maghrib, isha and midnight. An event may be absent from a day's
// record when it has no solution at the record's latitude (polar day or
// night); absence is expressed by the key simply not being present, never
// by a sentinel value.
package prayer

import (
	"time"
)

// Event names a daily prayer-time instant.
type Event string

// The closed event enumeration. No other keys appear in a DailyRecord.
const (
	Fajr     Event = "fajr"
	Sunrise  Event = "sunrise"
	Dhuhr    Event = "dhuhr"
	Asr      Event = "asr"
	Maghrib  Event = "maghrib"
	Isha     Event = "isha"
	Midnight Event = "midnight"
)

// Events lists all event names in canonical day order.
var Events = []Event{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Midnight}

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinates lie within [-90,90] / [-180,180].
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DailyRecord holds one calendar day's computed instants for one location.
// The coordinates are those used for the computation and never change after
// the record is created.
type DailyRecord struct {
	Date      time.Time           `json:"date"` // calendar day, midnight UTC
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Times     map[Event]time.Time `json:"times"`
}

// At returns the instant for the given event and whether it is present.
func (r *DailyRecord) At(e Event) (time.Time, bool) {
	t, ok := r.Times[e]
	return t, ok
}

// Coordinates returns the position the record was computed for.
func (r *DailyRecord) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}
