// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"time"

	"golang.org/x/text/language"
)

// twelveHourLocales are language bases that conventionally use a 12-hour
// clock for short times. Everything else gets a 24-hour clock.
var twelveHourLocales = []language.Tag{
	language.English,
	language.Spanish,
	language.Hindi,
	language.Arabic,
}

var clockMatcher = language.NewMatcher(twelveHourLocales)

// TimestampFormatter maps an instant to a recency-relative display string.
// Messages younger than 24 hours show a clock time in the locale's
// convention; older messages show an ISO-style date.
type TimestampFormatter struct {
	locale     language.Tag
	twelveHour bool
	now        func() time.Time // injectable for tests
}

// NewTimestampFormatter creates a formatter for the given BCP 47 locale
// string. Unknown or empty locales fall back to a 24-hour clock.
func NewTimestampFormatter(locale string) *TimestampFormatter {
	tag, err := language.Parse(locale)
	twelveHour := false
	if err == nil {
		_, _, conf := clockMatcher.Match(tag)
		twelveHour = conf >= language.High
	}
	return &TimestampFormatter{
		locale:     tag,
		twelveHour: twelveHour,
		now:        time.Now,
	}
}

// Format renders the instant relative to now: clock time within the last
// 24 hours, date otherwise.
func (f *TimestampFormatter) Format(t time.Time) string {
	if f.now().Sub(t) < 24*time.Hour {
		if f.twelveHour {
			return t.Format("03:04 PM")
		}
		return t.Format("15:04")
	}
	return t.Format("2006-01-02")
}
