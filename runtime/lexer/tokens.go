package lexer

// TokenType classifies a lexeme
type TokenType int

const (
	OPERATOR   TokenType = iota // any run of non-letter, non-digit, non-space characters: + == ( , )
	KEYWORD                     // reserved statement word, only with WithKeywords()
	IDENTIFIER                  // letter followed by letters/digits
	NEWLINE                     // \n - statement terminator
	NUMBER                      // run of digits
	COMMENT                     // reserved; the state machine has no comment syntax

	// EOF is never produced by the lexer. The parser's cursor returns it when
	// reading past the last token.
	EOF
)

// Token is an immutable (type, lexeme) pair
type Token struct {
	Type TokenType
	Text string
	Line int // 1-based line the lexeme ends on
}

// String returns the token text (for testing and debugging)
func (t Token) String() string {
	return t.Text
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case OPERATOR:
		return "OPERATOR"
	case KEYWORD:
		return "KEYWORD"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NEWLINE:
		return "NEWLINE"
	case NUMBER:
		return "NUMBER"
	case COMMENT:
		return "COMMENT"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Keywords lists the words that open or close statements.
// The parser dispatches on lexemes, so these only change the token type when
// the lexer runs with WithKeywords().
var Keywords = map[string]bool{
	"If":        true,
	"While":     true,
	"Method":    true,
	"Endif":     true,
	"Endloop":   true,
	"Endmethod": true,
}
