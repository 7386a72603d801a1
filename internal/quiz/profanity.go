package quiz

import "strings"

// Classroom chat shows every quiz attempt to both students, so attempts are
// masked before they reach the record.
var blockedWords = []string{
	"바보", "멍청이", "stupid", "idiot", "damn", "hell",
}

// MaskProfanity replaces blocked words in an attempt with asterisks. The
// comparison is case-insensitive; the masked text keeps the original length
// so the attempt stays recognizable.
func MaskProfanity(text string) string {
	masked := text
	lower := strings.ToLower(text)
	for _, w := range blockedWords {
		for {
			idx := strings.Index(lower, w)
			if idx < 0 {
				break
			}
			stars := strings.Repeat("*", len(w))
			masked = masked[:idx] + stars + masked[idx+len(w):]
			lower = lower[:idx] + stars + lower[idx+len(w):]
		}
	}
	return masked
}
