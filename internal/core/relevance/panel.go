package relevance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"digitalclock/internal/core/model"

	"github.com/samber/mo"
)

const (
	titleLimit  = 20
	placeholder = "N/A"
)

// Block is one cell of the status panel.
type Block struct {
	Title     string
	Value     string
	Highlight bool
}

// Panel renders the status panel for now: the relevant event, uptime and
// battery, in display order.
func Panel(now time.Time, todays []model.CalendarEntry, uptime mo.Option[time.Duration], battery mo.Option[int]) []Block {
	return []Block{
		EventBlock(now, Select(now, todays), len(todays)),
		UptimeBlock(uptime),
		BatteryBlock(battery),
	}
}

// EventBlock renders the relevant-event cell. todaysEvents is the number of
// events considered for today; it picks between "None" and "Finished" when
// nothing is relevant any more.
func EventBlock(now time.Time, info mo.Option[Info], todaysEvents int) Block {
	selected, ok := info.Get()
	if !ok {
		if todaysEvents == 0 {
			return Block{Title: "Events Today", Value: "None"}
		}
		return Block{Title: "Events Today", Value: "Finished", Highlight: true}
	}

	title := TruncateTitle(selected.Entry.Title)
	if selected.Status == StatusInProgress {
		return Block{
			Title:     "Now",
			Value:     title + " · " + Remaining(selected.Entry.End.Sub(now)),
			Highlight: true,
		}
	}
	return Block{
		Title:     "Next Event",
		Value:     selected.Entry.Start.Format("15:04") + " - " + title,
		Highlight: true,
	}
}

// Remaining formats the time left of an event in progress. A positive
// remainder that rounds to zero minutes reads "ending now".
func Remaining(left time.Duration) string {
	minutes := int(math.Round(left.Minutes()))
	if minutes <= 0 {
		return "ending now"
	}
	return fmt.Sprintf("%d min left", minutes)
}

// TruncateTitle shortens long titles to 20 characters plus an ellipsis.
func TruncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "No Title"
	}
	runes := []rune(title)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "…"
	}
	return title
}

// UptimeBlock renders system uptime as "1d 2h 3m".
func UptimeBlock(uptime mo.Option[time.Duration]) Block {
	return Block{Title: "Uptime", Value: FormatUptime(uptime)}
}

// FormatUptime keeps days, hours and minutes, dropping leading zero units.
func FormatUptime(uptime mo.Option[time.Duration]) string {
	value, ok := uptime.Get()
	if !ok || value < 0 {
		return placeholder
	}
	total := int(value / time.Minute)
	days := total / (24 * 60)
	hours := (total / 60) % 24
	minutes := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " ")
}

// BatteryBlock renders the battery percentage.
func BatteryBlock(level mo.Option[int]) Block {
	value, ok := level.Get()
	if !ok {
		return Block{Title: "Battery", Value: placeholder}
	}
	return Block{Title: "Battery", Value: fmt.Sprintf("%d%%", value)}
}

// BatteryGlyph is the icon bucket for a battery level. Unknown levels count
// as empty.
type BatteryGlyph string

const (
	BatteryFull         BatteryGlyph = "battery-100"
	BatteryThreeQuarter BatteryGlyph = "battery-75"
	BatteryHalf         BatteryGlyph = "battery-50"
	BatteryQuarter      BatteryGlyph = "battery-25"
	BatteryEmpty        BatteryGlyph = "battery-0"
)

// GlyphFor buckets a level into an icon.
func GlyphFor(level mo.Option[int]) BatteryGlyph {
	value := level.OrElse(0)
	switch {
	case value >= 95 && value <= 100:
		return BatteryFull
	case value >= 70 && value < 95:
		return BatteryThreeQuarter
	case value >= 45 && value < 70:
		return BatteryHalf
	case value >= 20 && value < 45:
		return BatteryQuarter
	case value >= 0 && value < 20:
		return BatteryEmpty
	default:
		return BatteryFull
	}
}
