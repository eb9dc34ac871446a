// Package textproc normalizes raw SMS text into the token form the
// classifier consumes. It mirrors the preprocessing the model was trained
// with: lowercase, punctuation stripped, common English stopwords removed,
// plus the original message length as an extra feature.
package textproc

import (
	"strings"
	"unicode"
)

// Document is the prepared form of one message.
type Document struct {
	Tokens []string
	Length int
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "if": {}, "in": {}, "into": {}, "is": {},
	"it": {}, "no": {}, "not": {}, "of": {}, "on": {}, "or": {}, "such": {},
	"that": {}, "the": {}, "their": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "will": {}, "with": {},
	"you": {}, "your": {}, "i": {}, "me": {}, "my": {}, "we": {}, "our": {},
}

// Prepare turns a raw message into a Document. The length feature is the
// rune count of the raw message, recorded before any normalization.
func Prepare(sms string) Document {
	var b strings.Builder
	b.Grow(len(sms))
	for _, r := range sms {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}

	return Document{
		Tokens: tokens,
		Length: len([]rune(sms)),
	}
}
