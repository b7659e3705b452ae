// Package jsondate reads the dates stored by the browser app, which wrote
// them with toLocaleDateString, as well as RFC 3339 timestamps.
package jsondate

import (
	"bytes"
	"encoding/json"
	"time"
)

// layouts are tried in order. Month-first comes before day-first, so an
// ambiguous "3/4/2026" reads as March 4.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2.1.2006",
	"2006/1/2",
	"1/2/2006, 3:04:05 PM",
	"2/1/2006, 15:04:05",
}

// Time is a time.Time that also accepts locale date strings. A value that
// matches no layout is kept verbatim and written back unchanged.
type Time struct {
	time.Time
	raw string
}

func Of(t time.Time) Time { return Time{Time: t} }

func Parse(s string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() && t.raw != "" {
		return json.Marshal(t.raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	*t = Time{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if parsed, ok := Parse(s); ok {
		t.Time = parsed
		return nil
	}
	t.raw = s
	return nil
}

// Raw is the original text of a date no layout matched.
func (t Time) Raw() string { return t.raw }
