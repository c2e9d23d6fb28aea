package submission

import (
	"strings"
	"time"
)

// DateLayout is day.month.year; leading zeros are optional on input.
const DateLayout = "02.01.2006"

const dateInputLayout = "2.1.2006"

// NormalizeDate parses a user supplied day.month.year date as midnight UTC.
// An empty value means the submission has no date, and now is used.
func NormalizeDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC(), nil
	}

	t, err := time.ParseInLocation(dateInputLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, &DateParseError{Value: raw, Err: err}
	}
	return t, nil
}

// Finalize sets CreatedDate once. Later calls keep the first result.
func (d *Draft) Finalize(now time.Time) error {
	if d.CreatedDate != nil {
		return nil
	}

	t, err := NormalizeDate(d.RawCreatedDate, now)
	if err != nil {
		return err
	}
	d.CreatedDate = &t
	return nil
}
