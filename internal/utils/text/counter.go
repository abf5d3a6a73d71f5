// Package text provides rune-aware helpers for model output, which routinely
// mixes scripts (Bangla headlines, English summaries, emoji).
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
//	CountRunes("news")   // 4
//	CountRunes("খবর")    // 3
//	CountRunes("")       // 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate shortens text to at most maxRunes runes and appends "..." when
// anything was cut. It never splits a multi-byte character. A non-positive
// maxRunes yields "".
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	n := 0
	for i := range text {
		if n == maxRunes {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
