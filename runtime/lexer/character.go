package lexer

import "unicode"

// ASCII character lookup tables for fast classification.
// Characters >= 128 fall back to the unicode package.
var (
	isWhitespace [128]bool // Space, tab, carriage return, vertical tab, form feed (newline is separate)
	isLetter     [128]bool // a-z, A-Z
	isDigit      [128]bool // 0-9
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
	}
}

// charClass is the input alphabet of the state machine
type charClass int

const (
	classNewline charClass = iota
	classSpace
	classLetter
	classDigit
	classOperator // everything else, punctuation included
)

// classify maps a rune onto the state machine's alphabet.
// Underscore is not a letter, so it lexes as an operator character.
func classify(ch rune) charClass {
	if ch == '\n' {
		return classNewline
	}
	if ch < 128 {
		switch {
		case isWhitespace[ch]:
			return classSpace
		case isLetter[ch]:
			return classLetter
		case isDigit[ch]:
			return classDigit
		default:
			return classOperator
		}
	}
	switch {
	case unicode.IsSpace(ch):
		return classSpace
	case unicode.IsLetter(ch):
		return classLetter
	case unicode.IsDigit(ch):
		return classDigit
	default:
		return classOperator
	}
}
