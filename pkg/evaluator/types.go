package evaluator

import (
	"fmt"
	"time"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
	"github.com/vmihailenco/msgpack/v5"
)

// Coordinates is an observer location in decimal degrees, north and east positive.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) observer() ephemeris.Observer {
	return ephemeris.Observer{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Verdict is the tri-state suitability of a night for an activity.
type Verdict int

const (
	No Verdict = iota
	Partial
	Yes
)

func (v Verdict) String() string {
	switch v {
	case Yes:
		return "Yes"
	case Partial:
		return "Partial"
	case No:
		return "No"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// MarshalText encodes the verdict as "Yes", "Partial" or "No".
func (v Verdict) MarshalText() ([]byte, error) {
	switch v {
	case Yes, Partial, No:
		return []byte(v.String()), nil
	}
	return nil, fmt.Errorf("invalid verdict %d", int(v))
}

func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// EncodeMsgpack writes the verdict as a msgpack str. Without it the encoder
// picks up MarshalText and emits bin.
func (v Verdict) EncodeMsgpack(enc *msgpack.Encoder) error {
	b, err := v.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(b))
}

func (v *Verdict) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return v.UnmarshalText([]byte(s))
}

// ParseVerdict accepts the verdict names in either capitalized or lower case form.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "Yes", "yes":
		return Yes, nil
	case "Partial", "partial":
		return Partial, nil
	case "No", "no":
		return No, nil
	}
	return No, fmt.Errorf("unknown verdict %q", s)
}

// HikingConditions configures the night hiking classifier. Start and end are
// "HH:mm" wall-clock times in Timezone. The window never rolls over midnight.
type HikingConditions struct {
	Coordinates
	Timezone        string  `json:"timezone"`
	MinIllumination float64 `json:"min_illumination"`
	StartHikeTime   string  `json:"start_hike_time"`
	EndHikeTime     string  `json:"end_hike_time"`
}

// StarGazingConditions configures the star-gazing classifier. Empty start and
// end times default to 21:00 and 02:00; an end before the start falls on the
// following day. An empty Timezone inherits the hiking timezone.
//
// MaxIllumination and PreferNoMoon are validated and carried through but do
// not currently change the verdict.
type StarGazingConditions struct {
	Coordinates
	Timezone        string  `json:"timezone"`
	MaxIllumination float64 `json:"max_illumination"`
	PreferNoMoon    bool    `json:"prefer_no_moon"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
}

// DailyRecord holds the astronomical facts for one local calendar day. All
// instants are in the evaluation timezone; nil means the event does not occur
// or the provider had no data for it.
type DailyRecord struct {
	Date             time.Time  `json:"date"`
	MoonIllumination float64    `json:"moon_illumination"`
	Moonrise         *time.Time `json:"moonrise,omitempty"`
	Moonset          *time.Time `json:"moonset,omitempty"`
	Sunset           *time.Time `json:"sunset,omitempty"`
	Zenith           *time.Time `json:"zenith,omitempty"`
	ZenithAltitude   float64    `json:"zenith_altitude,omitempty"`
	PhaseName        string     `json:"phase_name"`
	Waxing           bool       `json:"waxing"`
}

// Assessment is a verdict plus the human-readable reason behind it.
type Assessment struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason"`
}

// Window is a span of local time.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DailyResult is one evaluated night.
type DailyResult struct {
	DailyRecord
	Hiking           Assessment `json:"hiking"`
	StarGazing       Assessment `json:"star_gazing"`
	BestHikingWindow *Window    `json:"best_hiking_window,omitempty"`
}
