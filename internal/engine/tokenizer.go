package engine

import "strings"

// Delimiter separates accumulated keypresses in the gateway's text
// field.
const Delimiter = "*"

// Tokenize splits the raw accumulated input string into ordered
// keypress tokens. It is a pure function of the request payload.
//
// An empty string (the first request in a dialog) yields zero tokens.
// Trailing or repeated delimiters produce empty tokens, which the
// resolver maps to an invalid-choice outcome rather than a crash.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	tokens := strings.Split(text, Delimiter)
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
	}
	return tokens
}

// Current returns the newest keypress, distinguishing it from history.
// It reports false when there are no tokens at all.
func Current(tokens []string) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[len(tokens)-1], true
}
