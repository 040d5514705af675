// Package route parses the location fragment "#<anchor>;<code>[;popup]".
package route

import "strings"

const popupFlag = "popup"

type Fragment struct {
	Anchor string
	Code   string
	Popup  bool
}

// Parse accepts the fragment with or without its leading '#'.
func Parse(s string) Fragment {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return Fragment{}
	}
	parts := strings.Split(s, ";")
	f := Fragment{Anchor: parts[0]}
	rest := parts[1:]
	if n := len(rest); n > 0 && rest[n-1] == popupFlag {
		f.Popup = true
		rest = rest[:n-1]
	}
	if len(rest) > 0 {
		f.Code = rest[0]
	}
	return f
}

func (f Fragment) String() string {
	if f.Anchor == "" && f.Code == "" && !f.Popup {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('#')
	sb.WriteString(f.Anchor)
	if f.Code != "" {
		sb.WriteByte(';')
		sb.WriteString(f.Code)
	}
	if f.Popup {
		sb.WriteByte(';')
		sb.WriteString(popupFlag)
	}
	return sb.String()
}

// WithCode returns a drill-down fragment for code on the same anchor.
func (f Fragment) WithCode(code string) Fragment {
	return Fragment{Anchor: f.Anchor, Code: code}
}

// WithPopup toggles the popup flag only.
func (f Fragment) WithPopup(on bool) Fragment {
	f.Popup = on
	return f
}

// NeedsRefetch reports whether moving from prev to next changes the data
// being shown. Adding or removing the popup flag does not.
func NeedsRefetch(prev, next Fragment) bool {
	return prev.Anchor != next.Anchor || prev.Code != next.Code
}
