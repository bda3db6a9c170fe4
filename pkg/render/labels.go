package render

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabeler turns an id such as "typeOfClaim" or "pay_details" into
// sentence-case text ("Type of claim"). It is the last resort when no
// translation exists, so untranslated screens stay readable.
func DefaultLabeler(id string) string {
	if id == "" {
		return ""
	}

	var words []string
	for _, chunk := range splitWordsPattern.Split(id, -1) {
		if chunk == "" {
			continue
		}
		words = append(words, strings.Fields(splitCamel(chunk))...)
	}
	for i, word := range words {
		if isAcronym(word) {
			continue
		}
		word = strings.ToLower(word)
		if i == 0 {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		words[i] = word
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	var next rune
	if index+1 < len(input) {
		next = rune(input[index+1])
	}
	switch {
	case isLower(prev) && isUpper(r):
		return true
	case isUpper(prev) && isUpper(r) && isLower(next):
		// "ACASCertificate" splits before "Certificate"
		return true
	default:
		return (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
	}
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !isUpper(r) && !isDigit(r) {
			return false
		}
	}
	return true
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
