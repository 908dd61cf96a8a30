package resolve

import (
	"errors"
	"testing"
	"time"

	"github.com/msharif/salat-cli-go/internal/cache"
	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// fakeCalc is a deterministic calculator that fabricates plausible times
// and records every call for assertions.
type fakeCalc struct {
	calls  []time.Time
	coords []prayer.Coordinates
	err    error
}

func (f *fakeCalc) Compute(coords prayer.Coordinates, date time.Time, _ prayer.Settings) (*prayer.DailyRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, core.DateOnly(date))
	f.coords = append(f.coords, coords)

	day := core.DateOnly(date)
	return &prayer.DailyRecord{
		Date:      day,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Times: map[prayer.Event]time.Time{
			prayer.Fajr:     day.Add(10 * time.Hour),
			prayer.Sunrise:  day.Add(11*time.Hour + 30*time.Minute),
			prayer.Dhuhr:    day.Add(17 * time.Hour),
			prayer.Asr:      day.Add(20*time.Hour + 30*time.Minute),
			prayer.Maghrib:  day.Add(22*time.Hour + 40*time.Minute),
			prayer.Isha:     day.Add(24 * time.Hour),
			prayer.Midnight: day.Add(29 * time.Hour),
		},
	}, nil
}

// monthRecord builds a full-month slot the way a recomputation would.
func monthRecord(t *testing.T, year int, month time.Month, coords prayer.Coordinates, fetchedAt time.Time) *cache.MonthlyRecord {
	t.Helper()
	calc := &fakeCalc{}
	days := make([]prayer.DailyRecord, 0, core.DaysInMonth(year, month))
	for day := 1; day <= core.DaysInMonth(year, month); day++ {
		rec, err := calc.Compute(coords, time.Date(year, month, day, 0, 0, 0, 0, time.UTC), prayer.Settings{})
		if err != nil {
			t.Fatalf("building month record: %v", err)
		}
		days = append(days, *rec)
	}
	return &cache.MonthlyRecord{
		Month:     int(month),
		Year:      year,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		FetchedAt: fetchedAt,
		Days:      days,
	}
}

// newTestResolver wires a resolver to a fake calculator, a memory store
// and a pinned clock.
func newTestResolver(calc *fakeCalc, store *cache.MemoryStore, now time.Time) *Resolver {
	r := New(calc, store, prayer.Settings{}, time.UTC)
	r.now = func() time.Time { return now }
	return r
}

var testCoords = prayer.Coordinates{Latitude: 40, Longitude: -75}

func TestResolveRecomputesFullMonth(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Freshness != Live {
		t.Errorf("expected live result, got %s", res.Freshness)
	}
	if !res.AsOf.Equal(now) {
		t.Errorf("expected asOf = now for live results, got %v", res.AsOf)
	}
	if len(calc.calls) != 30 {
		t.Fatalf("expected 30 computations for June, got %d", len(calc.calls))
	}

	// Strictly ascending, no gaps, no duplicates.
	for i, call := range calc.calls {
		want := time.Date(2026, time.June, i+1, 0, 0, 0, 0, time.UTC)
		if !call.Equal(want) {
			t.Fatalf("call %d computed %s, want %s", i, core.FormatDate(call), core.FormatDate(want))
		}
	}

	// The month was persisted under its key.
	saved, err := store.Load(cache.KeyFor(now, testCoords))
	if err != nil || saved == nil {
		t.Fatalf("expected month record in store, got (%v, %v)", saved, err)
	}
	if len(saved.Days) != 30 {
		t.Errorf("expected 30 stored days, got %d", len(saved.Days))
	}

	if !core.SameDay(res.Today.Date, now) {
		t.Errorf("today = %s, want %s", core.FormatDate(res.Today.Date), core.FormatDate(now))
	}
	if !core.SameDay(res.Tomorrow.Date, now.AddDate(0, 0, 1)) {
		t.Errorf("tomorrow = %s, want %s", core.FormatDate(res.Tomorrow.Date), core.FormatDate(now.AddDate(0, 0, 1)))
	}
}

func TestResolveServesFreshCache(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	fetchedAt := now.Add(-24 * time.Hour)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.June, testCoords, fetchedAt))
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Freshness != Cached {
		t.Errorf("expected cached result, got %s", res.Freshness)
	}
	if !res.AsOf.Equal(fetchedAt) {
		t.Errorf("expected asOf = fetchedAt for cached results, got %v", res.AsOf)
	}
	if len(calc.calls) != 0 {
		t.Errorf("expected no computation on a fresh cache, got %d calls", len(calc.calls))
	}
	if store.Saves != 0 {
		t.Errorf("expected no save on a fresh cache, got %d", store.Saves)
	}
}

func TestResolveForceRefreshBypassesFreshCache(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.June, testCoords, now.Add(-time.Hour)))
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Freshness != Live {
		t.Errorf("expected live result under force refresh, got %s", res.Freshness)
	}
	if len(calc.calls) != 30 {
		t.Errorf("expected a full recomputation, got %d calls", len(calc.calls))
	}
}

func TestResolveStaleCacheRecomputes(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.June, testCoords, now.Add(-10*24*time.Hour)))
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Freshness != Live {
		t.Errorf("expected stale cache to trigger recomputation, got %s", res.Freshness)
	}
}

func TestResolveNoLocationFallsBackToStaleCache(t *testing.T) {
	// Location timed out; a 10-day-old same-month slot still serves.
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	fetchedAt := now.Add(-10 * 24 * time.Hour)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.June, testCoords, fetchedAt))
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(nil, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Freshness != Cached {
		t.Errorf("expected cached fallback, got %s", res.Freshness)
	}
	if !res.AsOf.Equal(fetchedAt) {
		t.Errorf("expected asOf = fetchedAt, got %v", res.AsOf)
	}
	if len(calc.calls) != 0 {
		t.Errorf("expected no computation without a location, got %d calls", len(calc.calls))
	}
}

func TestResolveNoLocationNoCacheFails(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	r := newTestResolver(calc, store, now)

	if _, err := r.Resolve(nil, false); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if store.Saves != 0 {
		t.Errorf("expected nothing written, got %d saves", store.Saves)
	}
}

func TestResolveNoLocationRejectsDifferentMonth(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.May, testCoords, now.Add(-20*24*time.Hour)))
	r := newTestResolver(calc, store, now)

	if _, err := r.Resolve(nil, false); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for a different cached month, got %v", err)
	}
}

func TestResolveMonthBoundary(t *testing.T) {
	// Cached March (31 days) queried on March 31: tomorrow is April 1,
	// absent from the slot, computed directly with the slot's own
	// coordinates rather than any newer fix.
	now := time.Date(2026, time.March, 31, 10, 0, 0, 0, time.UTC)
	recordCoords := prayer.Coordinates{Latitude: 40, Longitude: -75}

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.March, recordCoords, now.Add(-time.Hour)))
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&recordCoords, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Freshness != Cached {
		t.Errorf("expected cached result, got %s", res.Freshness)
	}
	if len(calc.calls) != 1 {
		t.Fatalf("expected exactly one boundary computation, got %d", len(calc.calls))
	}
	wantDate := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !calc.calls[0].Equal(wantDate) {
		t.Errorf("boundary computed %s, want %s", core.FormatDate(calc.calls[0]), core.FormatDate(wantDate))
	}
	if calc.coords[0] != recordCoords {
		t.Errorf("boundary used %+v, want the record's coordinates %+v", calc.coords[0], recordCoords)
	}
	if !core.SameDay(res.Tomorrow.Date, wantDate) {
		t.Errorf("tomorrow = %s, want %s", core.FormatDate(res.Tomorrow.Date), core.FormatDate(wantDate))
	}
}

func TestResolveStorageFailureIsNonFatal(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.SaveErr = errors.New("quota exceeded")
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, false)
	if err != nil {
		t.Fatalf("expected resolution to survive a storage failure, got %v", err)
	}
	if res.Freshness != Live {
		t.Errorf("expected live result, got %s", res.Freshness)
	}
}

func TestResolveCalculatorFailureFallsBackToStale(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	fetchedAt := now.Add(-10 * 24 * time.Hour)

	store := cache.NewMemoryStore()
	store.Seed(monthRecord(t, 2026, time.June, testCoords, fetchedAt))

	calc := &fakeCalc{err: prayer.ErrInvalidCoordinates}
	r := newTestResolver(calc, store, now)

	res, err := r.Resolve(&testCoords, false)
	if err != nil {
		t.Fatalf("expected stale fallback, got %v", err)
	}
	if res.Freshness != Cached {
		t.Errorf("expected cached fallback, got %s", res.Freshness)
	}
}

func TestResolveCalculatorFailureWithoutCacheFails(t *testing.T) {
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{err: prayer.ErrInvalidCoordinates}
	store := cache.NewMemoryStore()
	r := newTestResolver(calc, store, now)

	if _, err := r.Resolve(&testCoords, false); !errors.Is(err, prayer.ErrInvalidCoordinates) {
		t.Fatalf("expected calculator error to surface, got %v", err)
	}
}

func TestResolveTodayMissingIsTerminal(t *testing.T) {
	now := time.Date(2026, time.June, 20, 10, 0, 0, 0, time.UTC)

	// A slot that claims June but only covers the first half of it.
	partial := monthRecord(t, 2026, time.June, testCoords, now.Add(-time.Hour))
	partial.Days = partial.Days[:15]

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	store.Seed(partial)
	r := newTestResolver(calc, store, now)

	if _, err := r.Resolve(&testCoords, false); !errors.Is(err, ErrTodayMissing) {
		t.Fatalf("expected ErrTodayMissing, got %v", err)
	}
}

func TestMonthReturnsFullRecord(t *testing.T) {
	now := time.Date(2026, time.February, 10, 10, 0, 0, 0, time.UTC)

	calc := &fakeCalc{}
	store := cache.NewMemoryStore()
	r := newTestResolver(calc, store, now)

	record, freshness, err := r.Month(&testCoords, false)
	if err != nil {
		t.Fatalf("Month failed: %v", err)
	}
	if freshness != Live {
		t.Errorf("expected live month, got %s", freshness)
	}
	if len(record.Days) != 28 {
		t.Errorf("expected 28 days for February 2026, got %d", len(record.Days))
	}
}
