// Package output renders resolution results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/msharif/salat-cli-go/internal/cache"
	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
	"github.com/msharif/salat-cli-go/internal/resolve"
)

// eventLabels maps events to their display names in day order.
var eventLabels = []struct {
	event prayer.Event
	label string
}{
	{prayer.Fajr, "Fajr"},
	{prayer.Sunrise, "Sunrise"},
	{prayer.Dhuhr, "Dhuhr"},
	{prayer.Asr, "Asr"},
	{prayer.Maghrib, "Maghrib"},
	{prayer.Isha, "Isha"},
	{prayer.Midnight, "Midnight"},
}

// clock renders an instant in the display zone, or the absent marker.
func clock(t time.Time, ok bool, loc *time.Location) string {
	if !ok {
		return "--:--"
	}
	return core.FormatClock(t.In(loc))
}

// PrintResult writes the day view for a resolution: start times, window
// ends, the disliked spans, and the freshness footer.
func PrintResult(w io.Writer, res *resolve.Result, loc *time.Location) {
	today := res.Today

	fmt.Fprintf(w, "Location: %.2f, %.2f\n", today.Latitude, today.Longitude)
	fmt.Fprintf(w, "%s\n\n", today.Date.Format("Monday, January 2, 2006"))

	windows := prayer.DeriveWindows(&today, &res.Tomorrow)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, el := range eventLabels {
		start, ok := today.At(el.event)
		line := fmt.Sprintf("%s\t%s", el.label, clock(start, ok, loc))
		if end, ok := windows.PermissibleEnd[el.event]; ok {
			line += fmt.Sprintf("\tends %s", clock(end, true, loc))
		} else {
			line += "\t"
		}
		if end, ok := windows.PreferredEnd[el.event]; ok {
			line += fmt.Sprintf("\tpreferred until %s", clock(end, true, loc))
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()

	if len(windows.Disliked) > 0 {
		spans := make([]string, 0, len(windows.Disliked))
		for _, span := range windows.Disliked {
			spans = append(spans, fmt.Sprintf("%s to %s", clock(span.Start, true, loc), clock(span.End, true, loc)))
		}
		fmt.Fprintf(w, "\nAvoid voluntary prayer: %s\n", strings.Join(spans, ", "))
	}

	fmt.Fprintln(w)
	if res.Freshness == resolve.Cached {
		fmt.Fprintf(w, "From cache, last fetched %s %s\n", core.FormatDate(res.AsOf.In(loc)), core.FormatClock(res.AsOf.In(loc)))
	} else {
		fmt.Fprintf(w, "Last updated: %s\n", core.FormatClock(res.AsOf.In(loc)))
	}
}

// PrintMonth writes one line per day of a monthly record.
func PrintMonth(w io.Writer, record *cache.MonthlyRecord, loc *time.Location) {
	fmt.Fprintf(w, "%s %d at %.2f, %.2f (fetched %s)\n\n",
		time.Month(record.Month), record.Year,
		record.Latitude, record.Longitude,
		core.FormatDate(record.FetchedAt.In(loc)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "Date"
	for _, el := range eventLabels {
		header += "\t" + el.label
	}
	fmt.Fprintln(tw, header)

	for i := range record.Days {
		day := &record.Days[i]
		line := core.FormatDate(day.Date)
		for _, el := range eventLabels {
			t, ok := day.At(el.event)
			line += "\t" + clock(t, ok, loc)
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

// PrintJSON prints a single item as formatted JSON.
func PrintJSON(item interface{}) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
