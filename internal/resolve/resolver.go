// Package resolve orchestrates the cache-versus-recompute decision for a
// resolution request.
//
// # Decision tree
//
// On each resolution the resolver loads the current cache slot, asks the
// validator about it, and then either serves today and tomorrow from the
// slot, recomputes the entire month and serves from the fresh record, or
// serves a stale slot as a last-resort fallback when no location is
// available. The result is tagged "live" when this run recomputed it and
// "cached" otherwise.
//
// Only one resolution runs at a time; concurrent triggers serialize on the
// resolver's lock so two recomputations can never race on the cache slot.
package resolve

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/msharif/salat-cli-go/internal/cache"
	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// Freshness tags where a result came from.
type Freshness string

const (
	// Live results were recomputed by this resolution.
	Live Freshness = "live"
	// Cached results were served from a pre-existing slot.
	Cached Freshness = "cached"
)

// Terminal resolution failures. Everything below these degrades gracefully
// and is logged as a warning instead.
var (
	// ErrNoData means there is neither a usable cache slot nor a
	// location to recompute from.
	ErrNoData = errors.New("no cached times and no location available")
	// ErrTodayMissing means the month record, even freshly recomputed,
	// holds no entry for today. This should not occur and is reported
	// rather than retried.
	ErrTodayMissing = errors.New("no times found for today")
)

// Result is what a resolution hands to the rendering layer.
type Result struct {
	Today     prayer.DailyRecord `json:"today"`
	Tomorrow  prayer.DailyRecord `json:"tomorrow"`
	Freshness Freshness          `json:"freshness"`
	AsOf      time.Time          `json:"asOf"`
}

// Resolver decides, per request, whether to serve cached daily records,
// recompute the month, or fall back to stale data.
type Resolver struct {
	calc     prayer.Calculator
	store    cache.Store
	settings prayer.Settings
	tz       *time.Location

	mu  sync.Mutex
	now func() time.Time // injectable clock for tests
}

// New creates a resolver. A nil tz means the device clock's zone.
func New(calc prayer.Calculator, store cache.Store, settings prayer.Settings, tz *time.Location) *Resolver {
	if tz == nil {
		tz = time.Local
	}
	return &Resolver{
		calc:     calc,
		store:    store,
		settings: settings,
		tz:       tz,
		now:      time.Now,
	}
}

// Resolve produces today's and tomorrow's records for the given position.
// A nil coords means the location source is unavailable: only the cached
// fallback path is tried. forceRefresh bypasses a fresh cache slot but the
// slot remains a fallback should recomputation fail.
func (r *Resolver) Resolve(coords *prayer.Coordinates, forceRefresh bool) (*Result, error) {
	record, freshness, now, err := r.currentRecord(coords, forceRefresh)
	if err != nil {
		return nil, err
	}
	return r.extract(record, freshness, now)
}

// Month returns the full month record under the same decision rules as
// Resolve, for callers that render the whole month.
func (r *Resolver) Month(coords *prayer.Coordinates, forceRefresh bool) (*cache.MonthlyRecord, Freshness, error) {
	record, freshness, _, err := r.currentRecord(coords, forceRefresh)
	return record, freshness, err
}

// currentRecord runs the validate/recompute/fallback state machine and
// yields the month record a resolution serves from.
func (r *Resolver) currentRecord(coords *prayer.Coordinates, forceRefresh bool) (*cache.MonthlyRecord, Freshness, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().In(r.tz)

	var record *cache.MonthlyRecord
	var err error
	if coords != nil {
		record, err = r.store.Load(cache.KeyFor(now, *coords))
	} else {
		record, err = r.store.LoadLatest()
	}
	if err != nil {
		log.Warn().Err(err).Msg("cache slot unreadable; treating as empty")
		record = nil
	}

	verdict := cache.Validate(record, now, forceRefresh)
	log.Debug().Stringer("verdict", verdict).Bool("force_refresh", forceRefresh).Msg("cache validated")

	if coords == nil {
		// No location: any same-month slot serves, stale or not.
		if verdict == cache.Unusable {
			return nil, "", now, ErrNoData
		}
		return record, Cached, now, nil
	}

	if verdict == cache.Usable {
		return record, Cached, now, nil
	}

	fresh, err := r.recomputeMonth(*coords, now)
	if err != nil {
		if verdict != cache.Unusable {
			log.Warn().Err(err).Msg("recomputation failed; serving stale cached times")
			return record, Cached, now, nil
		}
		return nil, "", now, err
	}
	return fresh, Live, now, nil
}

// recomputeMonth computes every day of the current month in ascending
// order, persists the assembled record, and returns it. A storage failure
// is logged and the in-memory record used regardless.
func (r *Resolver) recomputeMonth(coords prayer.Coordinates, now time.Time) (*cache.MonthlyRecord, error) {
	year, month := now.Year(), now.Month()
	numDays := core.DaysInMonth(year, month)

	log.Info().
		Int("year", year).Int("month", int(month)).Int("days", numDays).
		Float64("lat", coords.Latitude).Float64("lon", coords.Longitude).
		Msg("recomputing month")

	days := make([]prayer.DailyRecord, 0, numDays)
	for day := 1; day <= numDays; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		rec, err := r.calc.Compute(coords, date, r.settings)
		if err != nil {
			return nil, fmt.Errorf("computing %s: %w", core.FormatDate(date), err)
		}
		days = append(days, *rec)
	}

	record := &cache.MonthlyRecord{
		Month:     int(month),
		Year:      year,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		FetchedAt: now,
		Days:      days,
	}

	if err := r.store.Save(record); err != nil {
		log.Warn().Err(err).Msg("could not persist monthly record; continuing in memory")
	}
	return record, nil
}

// extract pulls today and tomorrow out of the record, delegating to the
// boundary resolver when tomorrow crosses into the next month.
func (r *Resolver) extract(record *cache.MonthlyRecord, freshness Freshness, now time.Time) (*Result, error) {
	today := core.DateOnly(now)

	todayRec := record.Day(today)
	if todayRec == nil {
		return nil, fmt.Errorf("%w (%s)", ErrTodayMissing, core.FormatDate(today))
	}

	tomorrowRec, err := resolveBoundaryDay(r.calc, record.Coordinates(), today.AddDate(0, 0, 1), record, r.settings)
	if err != nil {
		return nil, fmt.Errorf("resolving tomorrow: %w", err)
	}

	asOf := now
	if freshness == Cached {
		asOf = record.FetchedAt
	}

	return &Result{
		Today:     *todayRec,
		Tomorrow:  *tomorrowRec,
		Freshness: freshness,
		AsOf:      asOf,
	}, nil
}
