package evaluator

import (
	"slices"
	"time"
)

// EventKind names an astronomical event in a night's timeline.
type EventKind string

const (
	EventSunset   EventKind = "sunset"
	EventMoonrise EventKind = "moonrise"
	EventMoonPeak EventKind = "moon_peak"
	EventMoonset  EventKind = "moonset"
)

type Event struct {
	Kind EventKind `json:"kind"`
	Time time.Time `json:"time"`
}

// Events lists the record's events in chronological order. Absent events are
// omitted.
func (r DailyRecord) Events() []Event {
	events := make([]Event, 0, 4)
	add := func(k EventKind, t *time.Time) {
		if t != nil {
			events = append(events, Event{Kind: k, Time: *t})
		}
	}
	add(EventSunset, r.Sunset)
	add(EventMoonrise, r.Moonrise)
	add(EventMoonPeak, r.Zenith)
	add(EventMoonset, r.Moonset)

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})
	return events
}

// bestWindowMargin trims the moonlit span so the moon is clear of the horizon.
const bestWindowMargin = time.Hour

// BestHikingWindow returns the hour after moonrise through the hour before
// moonset for nights not rated No. It returns nil when the night is rated No,
// an event is missing, or the moon is up for less than two hours.
func BestHikingWindow(rec DailyRecord, hiking Assessment) *Window {
	if hiking.Verdict == No || rec.Moonrise == nil || rec.Moonset == nil {
		return nil
	}
	w := Window{
		Start: rec.Moonrise.Add(bestWindowMargin),
		End:   rec.Moonset.Add(-bestWindowMargin),
	}
	if !w.End.After(w.Start) {
		return nil
	}
	return &w
}
