package transcript

import "unicode"

// EstimateTokens approximates what the summarization service charges for text.
//
// Text is split left to right into runs of digits, runs of ASCII letters
// (either case), runs of whitespace and single other characters. Whitespace is
// free, a digit or letter run of length L costs ceil(L/4) and every other
// character costs 1.
func EstimateTokens(text string) int {
	runes := []rune(text)
	total := 0
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsDigit(r):
			end := span(runes, i, unicode.IsDigit)
			total += (end - i + 3) / 4
			i = end
		case isASCIILetter(r):
			end := span(runes, i, isASCIILetter)
			total += (end - i + 3) / 4
			i = end
		case unicode.IsSpace(r):
			i = span(runes, i, unicode.IsSpace)
		default:
			total++
			i++
		}
	}
	return total
}

func span(runes []rune, start int, in func(rune) bool) int {
	end := start
	for end < len(runes) && in(runes[end]) {
		end++
	}
	return end
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
