package prayer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/msharif/salat-cli-go/internal/core"
)

// ErrInvalidCoordinates is returned when a computation is requested for a
// position outside [-90,90] latitude / [-180,180] longitude.
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// Calculator converts (coordinates, calendar date, settings) into a
// DailyRecord. Implementations must be deterministic for identical inputs.
type Calculator interface {
	Compute(coords Coordinates, date time.Time, s Settings) (*DailyRecord, error)
}

// SolarCalculator computes prayer instants from solar geometry.
//
// Sunrise and sunset come straight from the ephemeris; dhuhr is the
// rise/set midpoint (apparent solar noon), fajr and isha are the morning
// and evening crossings of the method's depression angle, asr is the
// evening crossing of the shadow-factor elevation, and midnight is the
// midpoint of sunset and the following sunrise. Events without a solution
// on the given day are left out of the record.
type SolarCalculator struct{}

// Compute implements Calculator.
func (SolarCalculator) Compute(coords Coordinates, date time.Time, s Settings) (*DailyRecord, error) {
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: lat %.4f lon %.4f", ErrInvalidCoordinates, coords.Latitude, coords.Longitude)
	}

	lat, lon := coords.Latitude, coords.Longitude
	year, month, day := date.Date()
	times := make(map[Event]time.Time)

	rise, set := sunrise.SunriseSunset(lat, lon, year, month, day)
	if !rise.IsZero() && !set.IsZero() {
		times[Sunrise] = rise
		times[Maghrib] = set

		noon := rise.Add(set.Sub(rise) / 2)
		times[Dhuhr] = noon

		// Asr: the sun descends to the elevation at which shadows are
		// longer than the noon shadow by the convention's factor.
		if target, ok := asrElevation(lat, lon, noon, s.Afternoon.Factor()); ok {
			if _, asr := sunrise.TimeOfElevation(lat, lon, target, year, month, day); !asr.IsZero() {
				times[Asr] = asr
			}
		}

		// Midnight halves the night between sunset and the next sunrise.
		next := date.AddDate(0, 0, 1)
		nextRise, _ := sunrise.SunriseSunset(lat, lon, next.Year(), next.Month(), next.Day())
		if !nextRise.IsZero() {
			times[Midnight] = set.Add(nextRise.Sub(set) / 2)
		}
	}

	if fajr, _ := sunrise.TimeOfElevation(lat, lon, -s.Method.FajrAngle, year, month, day); !fajr.IsZero() {
		times[Fajr] = fajr
	}

	if s.Method.IshaInterval > 0 {
		if maghrib, ok := times[Maghrib]; ok {
			times[Isha] = maghrib.Add(s.Method.IshaInterval)
		}
	} else {
		if _, isha := sunrise.TimeOfElevation(lat, lon, -s.Method.IshaAngle, year, month, day); !isha.IsZero() {
			times[Isha] = isha
		}
	}

	for event, minutes := range s.Adjustments {
		if t, ok := times[event]; ok && minutes != 0 {
			times[event] = t.Add(time.Duration(minutes) * time.Minute)
		}
	}

	return &DailyRecord{
		Date:      core.DateOnly(date),
		Latitude:  lat,
		Longitude: lon,
		Times:     times,
	}, nil
}

// asrElevation returns the solar elevation (degrees) at which an object's
// shadow reaches factor object-lengths beyond its noon shadow:
// cot(asr) = factor + cot(noon altitude).
func asrElevation(lat, lon float64, noon time.Time, factor float64) (float64, bool) {
	noonAlt := sunrise.Elevation(lat, lon, noon)
	if noonAlt <= 0 {
		return 0, false
	}
	noonRad := noonAlt * math.Pi / 180
	elevRad := math.Atan(1 / (factor + 1/math.Tan(noonRad)))
	return elevRad * 180 / math.Pi, true
}
