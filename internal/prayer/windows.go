package prayer

import (
	"time"

	"github.com/msharif/salat-cli-go/internal/core"
)

// Fixed offsets for the derived display windows.
const (
	ishraqDuration   = 15 * time.Minute // disliked window after sunrise
	zawaalLead       = 5 * time.Minute  // disliked window before dhuhr
	karahaLead       = 45 * time.Minute // sun yellowing before maghrib
	maghribPreferred = 20 * time.Minute
	windowRoundStep  = 5 * time.Minute
)

// Span is a named half-open interval within a day.
type Span struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Windows carries the derived, never-persisted display intervals for one
// day: when each prayer's window closes, until when it is preferred, and
// the spans during which voluntary prayer is disliked.
type Windows struct {
	PermissibleEnd map[Event]time.Time
	PreferredEnd   map[Event]time.Time
	Disliked       []Span
}

// DeriveWindows computes the display windows for today. Tomorrow's record
// supplies the end of isha (the following fajr). Windows whose inputs are
// absent from the records are themselves absent.
func DeriveWindows(today, tomorrow *DailyRecord) Windows {
	w := Windows{
		PermissibleEnd: make(map[Event]time.Time),
		PreferredEnd:   make(map[Event]time.Time),
	}

	sunriseAt, hasSunrise := today.At(Sunrise)
	dhuhr, hasDhuhr := today.At(Dhuhr)
	asr, hasAsr := today.At(Asr)
	maghrib, hasMaghrib := today.At(Maghrib)
	isha, hasIsha := today.At(Isha)
	midnight, hasMidnight := today.At(Midnight)

	// Permissible ends: each prayer runs until the next event begins;
	// isha runs to the following day's fajr.
	if hasSunrise {
		w.PermissibleEnd[Fajr] = sunriseAt
		w.PreferredEnd[Fajr] = sunriseAt
	}
	if hasAsr {
		w.PermissibleEnd[Dhuhr] = asr
	}
	if hasMaghrib {
		w.PermissibleEnd[Asr] = maghrib
	}
	if hasIsha {
		w.PermissibleEnd[Maghrib] = isha
	}
	if tomorrow != nil {
		if nextFajr, ok := tomorrow.At(Fajr); ok {
			w.PermissibleEnd[Isha] = nextFajr
		}
	}

	// Preferred ends.
	if hasDhuhr && hasAsr {
		w.PreferredEnd[Dhuhr] = dhuhr.Add(asr.Sub(dhuhr) / 2)
	}
	if hasMaghrib {
		w.PreferredEnd[Asr] = core.RoundToMinuteStep(maghrib.Add(-karahaLead), windowRoundStep)
		w.PreferredEnd[Maghrib] = core.RoundToMinuteStep(maghrib.Add(maghribPreferred), windowRoundStep)
	}
	if hasMidnight {
		w.PreferredEnd[Isha] = midnight
	}

	// Disliked spans for voluntary prayer.
	if hasSunrise {
		w.Disliked = append(w.Disliked, Span{Name: "after sunrise", Start: sunriseAt, End: sunriseAt.Add(ishraqDuration)})
	}
	if hasDhuhr {
		w.Disliked = append(w.Disliked, Span{Name: "zenith", Start: dhuhr.Add(-zawaalLead), End: dhuhr})
	}
	if hasMaghrib {
		w.Disliked = append(w.Disliked, Span{Name: "before maghrib", Start: maghrib.Add(-karahaLead), End: maghrib})
	}

	return w
}
