package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// DisplayConfig selects the time zone and language used for date and time
// text. The zero value renders in UTC with English names.
type DisplayConfig struct {
	Location *time.Location
	Locale   language.Tag
}

// NewDisplayConfig resolves an IANA time zone name ("America/Los_Angeles",
// "Local", "UTC") and a BCP 47 locale tag ("en-US", "fr").
func NewDisplayConfig(timeZone, locale string) (DisplayConfig, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return DisplayConfig{}, fmt.Errorf("load display time zone: %w", err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DisplayConfig{}, fmt.Errorf("parse display locale: %w", err)
	}
	return DisplayConfig{Location: loc, Locale: tag}, nil
}

// calendarNames holds the localized words used by the fixed date/time patterns.
type calendarNames struct {
	months   [12]string
	meridiem [2]string
}

// English must stay first: the matcher falls back to index 0.
var (
	supportedLocales = []language.Tag{
		language.English,
		language.Spanish,
		language.French,
		language.German,
	}

	localeNames = []calendarNames{
		{
			months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
			meridiem: [2]string{"AM", "PM"},
		},
		{
			months:   [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
			meridiem: [2]string{"a. m.", "p. m."},
		},
		{
			months:   [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
			meridiem: [2]string{"AM", "PM"},
		},
		{
			months:   [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
			meridiem: [2]string{"AM", "PM"},
		},
	}

	localeMatcher = language.NewMatcher(supportedLocales)
)

func (c DisplayConfig) names() calendarNames {
	if c.Locale == language.Und {
		return localeNames[0]
	}
	_, i, _ := localeMatcher.Match(c.Locale)
	return localeNames[i]
}

func (c DisplayConfig) instant(epochMillis int64) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(epochMillis).In(loc)
}

// FormatDate renders an instant as "<Mon> <dd>, <yyyy>", e.g. "Mar 03, 1984".
func FormatDate(epochMillis int64, cfg DisplayConfig) string {
	t := cfg.instant(epochMillis)
	return fmt.Sprintf("%s %02d, %d", cfg.names().months[t.Month()-1], t.Day(), t.Year())
}

// FormatTime renders an instant on a 12-hour clock, e.g. "4:30 PM".
func FormatTime(epochMillis int64, cfg DisplayConfig) string {
	t := cfg.instant(epochMillis)
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := 0
	if t.Hour() >= 12 {
		meridiem = 1
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), cfg.names().meridiem[meridiem])
}
