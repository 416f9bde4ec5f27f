package weekend

import (
	"fmt"
	"strings"
	"time"

	locale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// Rule decides which weekdays count as the weekend.
type Rule struct {
	days [7]bool
}

// NewRule builds a rule from explicit weekdays.
func NewRule(days ...time.Weekday) Rule {
	var rule Rule
	for _, day := range days {
		rule.days[day] = true
	}
	return rule
}

// Default is the Saturday/Sunday weekend.
func Default() Rule {
	return NewRule(time.Saturday, time.Sunday)
}

// Contains reports whether date falls on a weekend day in loc.
func (rule Rule) Contains(date time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	return rule.days[date.In(loc).Weekday()]
}

// Days lists the weekend weekdays in Sunday-first order.
func (rule Rule) Days() []time.Weekday {
	var days []time.Weekday
	for day, ok := range rule.days {
		if ok {
			days = append(days, time.Weekday(day))
		}
	}
	return days
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// Parse builds a rule from weekday names such as "fri" or "Saturday".
func Parse(names []string) (Rule, error) {
	var days []time.Weekday
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return Rule{}, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, day)
	}
	return NewRule(days...), nil
}

// Regions whose weekend differs from Saturday/Sunday (CLDR weekData).
var regionWeekends = map[string][]time.Weekday{
	"AF": {time.Thursday, time.Friday},
	"IR": {time.Friday},
	"IN": {time.Sunday},
	"UG": {time.Sunday},
	"BH": {time.Friday, time.Saturday},
	"DZ": {time.Friday, time.Saturday},
	"EG": {time.Friday, time.Saturday},
	"IL": {time.Friday, time.Saturday},
	"IQ": {time.Friday, time.Saturday},
	"JO": {time.Friday, time.Saturday},
	"KW": {time.Friday, time.Saturday},
	"LY": {time.Friday, time.Saturday},
	"OM": {time.Friday, time.Saturday},
	"QA": {time.Friday, time.Saturday},
	"SA": {time.Friday, time.Saturday},
	"SD": {time.Friday, time.Saturday},
	"SY": {time.Friday, time.Saturday},
	"YE": {time.Friday, time.Saturday},
}

// ForRegion returns the weekend for an ISO 3166 region code.
func ForRegion(region string) Rule {
	if days, ok := regionWeekends[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return NewRule(days...)
	}
	return Default()
}

// ForLocale resolves the region of a BCP 47 / POSIX locale string such as
// "he_IL.UTF-8" or "en-US".
func ForLocale(value string) Rule {
	return ForRegion(regionOf(value))
}

// Detect uses the user's OS locale, falling back to Saturday/Sunday.
func Detect() Rule {
	if region, err := locale.GetRegion(); err == nil && region != "" {
		return ForRegion(region)
	}
	if value, err := locale.GetLocale(); err == nil {
		return ForLocale(value)
	}
	return Default()
}

func regionOf(value string) string {
	value = strings.TrimSpace(value)
	if index := strings.IndexAny(value, ".@"); index >= 0 {
		value = value[:index]
	}
	value = strings.ReplaceAll(value, "_", "-")
	tag, err := language.Parse(value)
	if err != nil {
		return ""
	}
	region, confidence := tag.Region()
	if confidence == language.No {
		return ""
	}
	return region.String()
}
