package text

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RelativeTime formats a time as relative: "3m ago", "1h ago", or "Jan 02 15:04" if > 24h.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "<1m ago"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 02 15:04")
	}
}

// FormatPercent formats percentages: 87 -> "87%", 8.3 -> "8.3%"
func FormatPercent(pct float64) string {
	if pct < 10 {
		return fmt.Sprintf("%.1f%%", pct)
	}
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatElapsed formats a duration as "3m", "1h12m", "25m" (no seconds unless < 1m).
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatArguments renders a tool argument map as "key=value, key=value"
// with keys sorted for stable output. Nested values use %v.
func FormatArguments(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ", ")
}

// FormatProgress renders "message [42%]" or just the percentage when the
// message is empty.
func FormatProgress(message string, pct float64) string {
	p := "[" + FormatPercent(pct) + "]"
	if message == "" {
		return p
	}
	return message + " " + p
}
