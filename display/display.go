// Package display formats timestamps and numerals for the rest timer UI.
package display

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// the Tokyo zone must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Layout is the output format of ToJST and FormatIn.
const Layout = "2006/01/02 15:04"

// ErrInvalidTimestamp is wrapped when ToJST cannot parse its input.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// input layouts tried in order; the zone-less ones are read as UTC
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var tokyo = mustLoad("Asia/Tokyo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("loading %s: %v", name, err))
	}
	return loc
}

// Tokyo returns the Asia/Tokyo location.
func Tokyo() *time.Location {
	return tokyo
}

// ToJST converts a UTC timestamp to Japan Standard Time as "YYYY/MM/DD HH:mm".
// Empty input yields an empty string.
func ToJST(utc string) (string, error) {
	return ToZone(utc, tokyo)
}

// ToZone is ToJST for an arbitrary location.
func ToZone(utc string, loc *time.Location) (string, error) {
	s := strings.TrimSpace(utc)
	if s == "" {
		return "", nil
	}

	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return FormatIn(t, loc), nil
}

// Parse reads s using the accepted input layouts.
func Parse(s string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatIn formats t in loc using Layout. A nil loc means UTC.
func FormatIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Layout)
}

func isFullwidthDigit(r rune) bool {
	return r >= '０' && r <= '９'
}

// HalfWidthDigits maps full-width digits U+FF10..U+FF19 to ASCII 0-9 and
// leaves every other rune untouched.
func HalfWidthDigits(s string) string {
	t := runes.If(runes.Predicate(isFullwidthDigit), width.Narrow, nil)
	out, _, err := transform.String(t, s)
	if err != nil {
		// narrowing digits cannot fail on valid input; keep the original
		return s
	}
	return out
}
