package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// recordPayload is the JSON structure stored in slot files.
type recordPayload struct {
	Month      int            `json:"month"`
	Year       int            `json:"year"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	FetchedAt  string         `json:"fetchedAt"`
	DailyTimes []dailyPayload `json:"dailyTimes"`
}

type dailyPayload struct {
	Date      string            `json:"date"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Times     map[string]string `json:"times"`
}

// encodeRecord serializes a record to the slot file format. Instants are
// written as RFC 3339 in UTC; absent events are simply not written.
func encodeRecord(r *MonthlyRecord) ([]byte, error) {
	payload := recordPayload{
		Month:      r.Month,
		Year:       r.Year,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		FetchedAt:  r.FetchedAt.UTC().Format(time.RFC3339),
		DailyTimes: make([]dailyPayload, 0, len(r.Days)),
	}

	for i := range r.Days {
		day := &r.Days[i]
		dp := dailyPayload{
			Date:      core.FormatDate(day.Date),
			Latitude:  day.Latitude,
			Longitude: day.Longitude,
			Times:     make(map[string]string, len(day.Times)),
		}
		for _, event := range prayer.Events {
			if t, ok := day.Times[event]; ok {
				dp.Times[string(event)] = t.UTC().Format(time.RFC3339)
			}
		}
		payload.DailyTimes = append(payload.DailyTimes, dp)
	}

	return json.MarshalIndent(payload, "", "  ")
}

// decodeRecord parses a slot file. Only the seven known event names are
// considered; anything else in the times mapping is ignored.
func decodeRecord(data []byte) (*MonthlyRecord, error) {
	var payload recordPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing cache slot: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339, payload.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetchedAt '%s': %w", payload.FetchedAt, err)
	}

	record := &MonthlyRecord{
		Month:     payload.Month,
		Year:      payload.Year,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		FetchedAt: fetchedAt,
		Days:      make([]prayer.DailyRecord, 0, len(payload.DailyTimes)),
	}

	for _, dp := range payload.DailyTimes {
		date, err := core.ParseDate(dp.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing daily record date: %w", err)
		}
		day := prayer.DailyRecord{
			Date:      date,
			Latitude:  dp.Latitude,
			Longitude: dp.Longitude,
			Times:     make(map[prayer.Event]time.Time, len(dp.Times)),
		}
		for _, event := range prayer.Events {
			raw, ok := dp.Times[string(event)]
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("parsing %s for %s: %w", event, dp.Date, err)
			}
			day.Times[event] = t
		}
		record.Days = append(record.Days, day)
	}

	return record, nil
}
