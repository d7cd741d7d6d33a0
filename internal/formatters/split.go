package formatters

import "strings"

// MaxMessageLength - лимит Telegram на текст сообщения в UTF-16 единицах.
const MaxMessageLength = 4096

// SplitMessage делит текст на части не длиннее limit UTF-16 единиц по
// границам строк. Строка длиннее лимита режется по символам.
// Склейка частей дает исходный текст.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if utf16Len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	size := 0
	flush := func() {
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf16Len(line)
		if size+n > limit {
			flush()
		}
		if n <= limit {
			b.WriteString(line)
			size += n
			continue
		}
		for _, r := range line {
			w := runeWidth(r)
			if size+w > limit {
				flush()
			}
			b.WriteRune(r)
			size += w
		}
	}
	flush()
	return chunks
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// runeWidth - символы вне BMP занимают в UTF-16 две единицы.
func runeWidth(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
