package intake

import (
	"path/filepath"
	"strings"
	"unicode"
)

const maxNameLen = 120

// SanitizeName makes an uploaded file name safe to use as a path element.
// Control characters are dropped, anything outside letters, digits and
// " -_.,()" becomes '_', and the result is cut to maxLen runes.
func SanitizeName(s string, maxLen int) string {
	s = filepath.Base(filepath.ToSlash(s))
	s = s[strings.LastIndex(s, "\\")+1:]

	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			ext := []rune(filepath.Ext(cleaned))
			if len(ext) < maxLen {
				cleaned = string(runes[:maxLen-len(ext)]) + string(ext)
			} else {
				cleaned = string(runes[:maxLen])
			}
		}
	}

	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}
