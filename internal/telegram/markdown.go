package telegram

import "strings"

// SplitMessage cuts text into parts of at most maxLen runes. A part ends at
// the last newline in its second half when there is one.
func SplitMessage(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > maxLen {
		cut := maxLen
		for i := maxLen - 1; i > maxLen/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// FixMarkdown closes a code span or bold run left open, which happens when a
// long message is cut into parts. Markers escaped by EscapeMarkdown and
// asterisks inside code spans are not counted.
func FixMarkdown(text string) string {
	var inCode, bold, escaped bool
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && !inCode:
			escaped = true
		case r == '`':
			inCode = !inCode
		case r == '*' && !inCode:
			bold = !bold
		}
	}

	if inCode {
		text += "`"
	}
	if bold {
		text += "*"
	}
	return text
}

var markdownV1Escaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes caller-supplied text, such as transaction
// descriptions, for Markdown (V1) messages.
func EscapeMarkdown(text string) string {
	return markdownV1Escaper.Replace(text)
}
