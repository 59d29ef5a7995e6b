package wkt

import (
	"strings"

	"github.com/fatih/color"
)

// ColorAttr names the token classes the formatter can colorize.
type ColorAttr int

const (
	KeywordColor ColorAttr = iota
	StringColor
	NumberColor
	TokenColor
)

// Colors maps token classes to sprintf-style colorizers. Colorized output is
// for terminal display only; the escape sequences make it unparseable.
type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			KeywordColor: color.RGB(74, 92, 138).SprintfFunc(),
			StringColor:  color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor:  color.RGB(128, 216, 236).SprintfFunc(),
			TokenColor:   color.CyanString,
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	f := c.Map[a]
	if f == nil {
		return c.Default
	}
	return f
}

func (f *Formatter) colorKeyword(s string) string { return f.colorize(KeywordColor, s) }
func (f *Formatter) colorQuoted(s string) string  { return f.colorize(StringColor, s) }
func (f *Formatter) colorNumber(s string) string  { return f.colorize(NumberColor, s) }
func (f *Formatter) colorToken(s string) string   { return f.colorize(TokenColor, s) }

func (f *Formatter) colorize(a ColorAttr, s string) string {
	if f.colors == nil {
		return s
	}
	return f.colors.Get(a)(s)
}
