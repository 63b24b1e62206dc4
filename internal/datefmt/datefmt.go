// Package datefmt turns the loose date strings found in data files into
// short display dates such as "May 1, 2023".
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// InvalidDate is what Format returns for input it cannot parse.
const InvalidDate = "Invalid Date"

// inputLayouts are tried in order. Partial dates fall on the first day of
// the month or year.
var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Parse reads s with the first matching input layout. Values without a zone
// are taken as UTC.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type style struct {
	months [12]string
	format func(months [12]string, t time.Time) string
}

var monthFirst = func(months [12]string, t time.Time) string {
	return fmt.Sprintf("%s %d, %d", months[t.Month()-1], t.Day(), t.Year())
}

var dayFirst = func(months [12]string, t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

var englishMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
}

var styles = []style{
	{months: englishMonths, format: monthFirst},
	{months: englishMonths, format: dayFirst},
	{
		months: [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
		format: func(months [12]string, t time.Time) string {
			return fmt.Sprintf("%d. %s %d", t.Day(), months[t.Month()-1], t.Year())
		},
	},
	{months: [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."}, format: dayFirst},
	{months: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}, format: dayFirst},
}

var matcher = language.NewMatcher(supported)

// Formatter formats dates for one locale.
type Formatter struct {
	tag   language.Tag
	style style
}

// New returns a Formatter for the closest supported match of locale.
// Empty or unparsable locales get en-US.
func New(locale string) *Formatter {
	idx := 0
	if tag, err := language.Parse(locale); err == nil {
		_, idx, _ = matcher.Match(tag)
	}
	return &Formatter{tag: supported[idx], style: styles[idx]}
}

// Locale reports the supported locale the formatter settled on.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Format renders s as a short display date, or InvalidDate.
func (f *Formatter) Format(s string) string {
	t, ok := Parse(s)
	if !ok {
		return InvalidDate
	}
	return f.style.format(f.style.months, t)
}

var defaultFormatter = New("en-US")

// Format renders s with the en-US formatter.
func Format(s string) string {
	return defaultFormatter.Format(s)
}
