package lexer

import (
	"strings"
	"time"
)

// State is the lexical state machine's current mode
type State int

const (
	StateIdle       State = iota // Between lexemes
	StateIdentifier              // Accumulating letters/digits after a leading letter
	StateNumber                  // Accumulating digits
	StateOperator                // Accumulating operator characters
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateIdentifier:
		return "InIdentifier"
	case StateNumber:
		return "InNumber"
	case StateOperator:
		return "InOperator"
	default:
		return "Unknown"
	}
}

// LexerOpt represents a lexer configuration option
type LexerOpt func(*LexerConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff   TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                      // Token counts + lex duration
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff   DebugLevel = iota // No debug info (default)
	DebugPaths                   // State transition tracing
)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	telemetry TelemetryMode
	debug     DebugLevel
	keywords  bool
}

// WithTelemetryBasic enables basic telemetry (token counts per type)
func WithTelemetryBasic() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithDebugPaths enables state transition tracing (development only)
func WithDebugPaths() LexerOpt {
	return func(c *LexerConfig) {
		c.debug = DebugPaths
	}
}

// WithKeywords classifies reserved statement words as KEYWORD instead of
// IDENTIFIER. Used by tooling; the parser accepts both.
func WithKeywords() LexerOpt {
	return func(c *LexerConfig) {
		c.keywords = true
	}
}

// TokenTelemetry holds per-token type telemetry (production-safe)
type TokenTelemetry struct {
	Type  TokenType
	Count int
}

// DebugEvent records one state transition (development only)
type DebugEvent struct {
	From State
	To   State
	Char rune
	Line int
}

// Lexer is a character-driven finite state machine that segments script text
// into tokens. It performs no validation and cannot fail.
type Lexer struct {
	state  State
	lexeme strings.Builder
	tokens []Token
	line   int

	keywords bool

	// Telemetry (nil when disabled for zero allocation)
	telemetryMode  TelemetryMode
	tokenTelemetry map[TokenType]*TokenTelemetry
	lexDuration    time.Duration

	// Debug (nil when disabled for zero allocation)
	debugLevel  DebugLevel
	debugEvents []DebugEvent
}

// NewLexer creates a new lexer instance with optional configuration
func NewLexer(opts ...LexerOpt) *Lexer {
	config := &LexerConfig{}
	for _, opt := range opts {
		opt(config)
	}

	l := &Lexer{
		keywords:      config.keywords,
		telemetryMode: config.telemetry,
		debugLevel:    config.debug,
	}

	// Only allocate telemetry structures when needed
	if config.telemetry > TelemetryOff {
		l.tokenTelemetry = make(map[TokenType]*TokenTelemetry)
	}

	// Only allocate debug structures when needed
	if config.debug > DebugOff {
		l.debugEvents = make([]DebugEvent, 0, 64)
	}

	return l
}

// Lex is a convenience wrapper that lexes script with a fresh lexer
func Lex(script string, opts ...LexerOpt) []Token {
	return NewLexer(opts...).Lex(script)
}

// Lex converts script into tokens. Every character is fed to the state
// machine, followed by one synthetic newline that flushes the final lexeme,
// so the returned stream always ends with a NEWLINE token.
//
// Lex resets all state first: lexing the same text twice yields identical
// token sequences.
func (l *Lexer) Lex(script string) []Token {
	var start time.Time
	if l.telemetryMode > TelemetryOff {
		start = time.Now()
	}

	l.reset()
	for _, ch := range script {
		l.read(ch)
	}
	// end of input
	l.read('\n')

	if l.telemetryMode > TelemetryOff {
		l.lexDuration = time.Since(start)
	}

	return l.tokens
}

// reset clears per-run state so the lexer can be reused
func (l *Lexer) reset() {
	l.state = StateIdle
	l.lexeme.Reset()
	l.tokens = make([]Token, 0, 64)
	l.line = 1

	if l.tokenTelemetry != nil {
		for k := range l.tokenTelemetry {
			delete(l.tokenTelemetry, k)
		}
	}
	if l.debugEvents != nil {
		l.debugEvents = l.debugEvents[:0]
	}
	l.lexDuration = 0
}

// read feeds one character to the handler for the current state
func (l *Lexer) read(ch rune) {
	class := classify(ch)
	switch l.state {
	case StateIdle:
		l.readIdle(ch, class)
	case StateIdentifier:
		l.readIdentifier(ch, class)
	case StateNumber:
		l.readNumber(ch, class)
	case StateOperator:
		l.readOperator(ch, class)
	}
}

// readIdle starts a lexeme on the first classifying character
func (l *Lexer) readIdle(ch rune, class charClass) {
	switch class {
	case classNewline:
		l.pushNewline()
	case classSpace:
		// ignored
	case classLetter:
		l.begin(ch, StateIdentifier)
	case classDigit:
		l.begin(ch, StateNumber)
	case classOperator:
		l.begin(ch, StateOperator)
	}
}

// readIdentifier extends the identifier with letters and digits
func (l *Lexer) readIdentifier(ch rune, class charClass) {
	switch class {
	case classNewline:
		l.flush()
		l.pushNewline()
		l.transition(StateIdle, ch)
	case classSpace:
		l.flush()
		l.transition(StateIdle, ch)
	case classLetter, classDigit:
		l.lexeme.WriteRune(ch)
	case classOperator:
		l.flush()
		l.begin(ch, StateOperator)
	}
}

// readNumber extends the number with digits; a letter ends it
func (l *Lexer) readNumber(ch rune, class charClass) {
	switch class {
	case classNewline:
		l.flush()
		l.pushNewline()
		l.transition(StateIdle, ch)
	case classSpace:
		l.flush()
		l.transition(StateIdle, ch)
	case classDigit:
		l.lexeme.WriteRune(ch)
	case classLetter:
		l.flush()
		l.begin(ch, StateIdentifier)
	case classOperator:
		l.flush()
		l.begin(ch, StateOperator)
	}
}

// readOperator accumulates consecutive operator characters into one lexeme
func (l *Lexer) readOperator(ch rune, class charClass) {
	switch class {
	case classNewline:
		l.flush()
		l.pushNewline()
		l.transition(StateIdle, ch)
	case classSpace:
		l.flush()
		l.transition(StateIdle, ch)
	case classLetter:
		l.flush()
		l.begin(ch, StateIdentifier)
	case classDigit:
		l.flush()
		l.begin(ch, StateNumber)
	case classOperator:
		l.lexeme.WriteRune(ch)
	}
}

// begin starts a new lexeme with ch and enters state
func (l *Lexer) begin(ch rune, state State) {
	l.lexeme.WriteRune(ch)
	l.transition(state, ch)
}

// transition records a state change
func (l *Lexer) transition(to State, ch rune) {
	if l.debugLevel > DebugOff && l.state != to {
		l.debugEvents = append(l.debugEvents, DebugEvent{From: l.state, To: to, Char: ch, Line: l.line})
	}
	l.state = to
}

// flush emits the accumulated lexeme as the token type of the current state.
// Empty lexemes are never emitted.
func (l *Lexer) flush() {
	if l.lexeme.Len() == 0 {
		return
	}
	text := l.lexeme.String()
	l.lexeme.Reset()

	var typ TokenType
	switch l.state {
	case StateIdentifier:
		typ = IDENTIFIER
		if l.keywords && Keywords[text] {
			typ = KEYWORD
		}
	case StateNumber:
		typ = NUMBER
	case StateOperator:
		typ = OPERATOR
	default:
		return
	}
	l.emit(Token{Type: typ, Text: text, Line: l.line})
}

// pushNewline emits a NEWLINE token and advances the line counter
func (l *Lexer) pushNewline() {
	l.emit(Token{Type: NEWLINE, Text: "\n", Line: l.line})
	l.line++
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
	if l.tokenTelemetry != nil {
		tel, exists := l.tokenTelemetry[tok.Type]
		if !exists {
			tel = &TokenTelemetry{Type: tok.Type}
			l.tokenTelemetry[tok.Type] = tel
		}
		tel.Count++
	}
}

// GetTokenTelemetry returns per-token type telemetry (production safe)
func (l *Lexer) GetTokenTelemetry() map[TokenType]*TokenTelemetry {
	if l.telemetryMode == TelemetryOff || l.tokenTelemetry == nil {
		return nil
	}

	// Return a copy to prevent external modification
	result := make(map[TokenType]*TokenTelemetry, len(l.tokenTelemetry))
	for k, v := range l.tokenTelemetry {
		telemetryCopy := *v
		result[k] = &telemetryCopy
	}
	return result
}

// LexDuration returns the time spent in the last Lex call (zero if telemetry is off)
func (l *Lexer) LexDuration() time.Duration {
	return l.lexDuration
}

// GetDebugEvents returns debug events (development only)
func (l *Lexer) GetDebugEvents() []DebugEvent {
	if l.debugLevel == DebugOff || l.debugEvents == nil {
		return nil
	}

	result := make([]DebugEvent, len(l.debugEvents))
	copy(result, l.debugEvents)
	return result
}
