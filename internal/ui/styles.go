package ui

import "sort"

// DefaultStyle is used when no style, or an unknown one, is requested.
const DefaultStyle = "braille"

// styles is the read-only registry of frame sequences. It is never written
// after package initialisation; lookups hand out copies.
var styles = map[string][]string{
	"braille": {"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	"classic": {"|", "/", "-", "\\"},
	"dots":    {".  ", ".. ", "...", " ..", "  .", "   "},
	"arrows":  {"←", "↖", "↑", "↗", "→", "↘", "↓", "↙"},
	"bar":     {"[    ]", "[=   ]", "[==  ]", "[=== ]", "[====]", "[ ===]", "[  ==]", "[   =]"},
}

// StyleByName returns the frames of the named style, falling back to
// DefaultStyle for unknown names.
func StyleByName(name string) []string {
	frames, ok := styles[name]
	if !ok {
		frames = styles[DefaultStyle]
	}
	return append([]string(nil), frames...)
}

// IsStyle reports whether name is a registered style.
func IsStyle(name string) bool {
	_, ok := styles[name]
	return ok
}

// StyleNames lists the registered styles in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
