package notify

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Embed colours
const (
	ColorMajor    = 0xf1c40f // Gold
	ColorMinor    = 0x3498db // Blue
	ColorMaxLevel = 0x9b59b6 // Purple
)

// Formatter renders celebration text with locale-aware number grouping
type Formatter struct {
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter creates an English formatter
func NewFormatter() *Formatter {
	return &Formatter{
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
	}
}

// Title is the one-line headline for a celebration
func (f *Formatter) Title(c Celebration) string {
	switch c.Kind {
	case KindMaxLevel:
		return f.printer.Sprintf("Maximum level %d reached!", c.Level)
	default:
		return f.printer.Sprintf("%s milestone: level %d!", f.title.String(c.Tier), c.Level)
	}
}

// Description is the longer body text
func (f *Formatter) Description(c Celebration) string {
	return f.printer.Sprintf("%s reached level %d with %d total XP.", c.UserID, c.Level, c.TotalXP)
}

// Color picks the embed colour for a celebration
func (f *Formatter) Color(c Celebration) int {
	switch {
	case c.Kind == KindMaxLevel:
		return ColorMaxLevel
	case c.Tier == "major":
		return ColorMajor
	default:
		return ColorMinor
	}
}

// SourceLabel turns a reward source key into display text, e.g. "lesson_completed" -> "Lesson Completed"
func (f *Formatter) SourceLabel(source string) string {
	runes := []rune(source)
	for i, r := range runes {
		if r == '_' {
			runes[i] = ' '
		}
	}
	return f.title.String(string(runes))
}
