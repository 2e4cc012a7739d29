package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/invariant"
	"github.com/KevinPriv/canvas-lang/runtime/lexer"
)

// Block terminators. A block ends at any of them; the statement that opened
// the block then demands its own.
const (
	endIf     = "Endif"
	endLoop   = "Endloop"
	endMethod = "Endmethod"
)

// emptyParens is how the lexer emits "()": adjacent operator characters
// accumulate into one lexeme.
const emptyParens = "()"

var comparisonOperators = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true,
	">": true, "<": true, "&&": true, "||": true,
}

// Parser turns a token stream into an AST with one token of lookahead.
// A Parser is single use.
type Parser struct {
	tokens []lexer.Token
	pos    int
	line   int

	config *ParserConfig

	// Telemetry (nil when disabled)
	telemetry *ParseTelemetry

	// Debug (nil when disabled)
	debugEvents []DebugEvent
}

// NewParser creates a parser over tokens with optional configuration
func NewParser(tokens []lexer.Token, opts ...ParserOpt) *Parser {
	config := &ParserConfig{}
	for _, opt := range opts {
		opt(config)
	}

	p := &Parser{
		tokens: tokens,
		line:   1,
		config: config,
	}

	if config.telemetry >= TelemetryBasic {
		p.telemetry = &ParseTelemetry{TokenCount: len(tokens)}
	}
	if config.debug > DebugOff {
		p.debugEvents = make([]DebugEvent, 0, 64)
	}

	return p
}

// Parse parses tokens into a program block
func Parse(tokens []lexer.Token, opts ...ParserOpt) (*ast.Block, error) {
	return NewParser(tokens, opts...).Parse()
}

// ParseString lexes and parses script. Syntax errors carry a code snippet.
func ParseString(script string, opts ...ParserOpt) (*ast.Block, error) {
	opts = append([]ParserOpt{WithSource(script)}, opts...)
	return Parse(lexer.Lex(script), opts...)
}

// Parse parses the whole token stream. The first syntax error aborts.
func (p *Parser) Parse() (*ast.Block, error) {
	var start time.Time
	if p.config.telemetry >= TelemetryTiming {
		start = time.Now()
	}

	block, err := p.program()

	if p.config.telemetry >= TelemetryTiming {
		p.telemetry.ParseTime = time.Since(start)
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// Telemetry returns parse metrics (nil if telemetry is off)
func (p *Parser) Telemetry() *ParseTelemetry {
	if p.telemetry == nil {
		return nil
	}
	t := *p.telemetry
	return &t
}

// DebugEvents returns grammar rule trace events (development only)
func (p *Parser) DebugEvents() []DebugEvent {
	if p.config.debug == DebugOff || p.debugEvents == nil {
		return nil
	}
	result := make([]DebugEvent, len(p.debugEvents))
	copy(result, p.debugEvents)
	return result
}

// recordDebugEvent records debug events when debug tracing is enabled
func (p *Parser) recordDebugEvent(event, context string) {
	if p.config.debug == DebugOff || p.debugEvents == nil {
		return
	}

	p.debugEvents = append(p.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		TokenPos:  p.pos,
		Line:      p.line,
		Context:   context,
	})
}

func (p *Parser) countStatement() {
	if p.telemetry != nil {
		p.telemetry.StatementCount++
		p.telemetry.NodeCount++
	}
}

func (p *Parser) countNode() {
	if p.telemetry != nil {
		p.telemetry.NodeCount++
	}
}

// program parses top-level statements. The final token (the lexer's
// trailing newline) is never parsed as a statement head.
func (p *Parser) program() (*ast.Block, error) {
	p.recordDebugEvent("enter_program", "parsing program")

	block := &ast.Block{}
	p.countNode()
	for p.pos < len(p.tokens)-1 {
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}

		prevPos := p.pos
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)

		invariant.Invariant(p.pos > prevPos, "parser stuck in program() at pos %d", p.pos)
	}

	p.recordDebugEvent("exit_program", fmt.Sprintf("%d statements", len(block.Statements)))
	return block, nil
}

// statement dispatches on the leading lexeme
func (p *Parser) statement() (ast.Statement, error) {
	head := p.current()
	if !isName(head) {
		return nil, p.errorf("could not parse statement starting with %s", describe(head))
	}
	line := p.line

	switch head.Text {
	case "If":
		p.advance()
		return p.ifStmt(line)
	case "While":
		p.advance()
		return p.whileStmt(line)
	case "Method":
		p.advance()
		return p.methodDef(line)
	case endIf, endLoop, endMethod:
		return nil, p.errorf("unexpected %s outside of a block", head.Text)
	}

	p.advance()
	switch {
	case p.accept("="):
		return p.assignment(head.Text, line)
	case p.accept("("):
		return p.methodInvoke(head.Text, line, false)
	case p.accept(emptyParens):
		return p.methodInvoke(head.Text, line, true)
	default:
		return p.commandInvoke(head.Text, line)
	}
}

// ifStmt: If <comparison> NEWLINE <block> Endif
func (p *Parser) ifStmt(line int) (ast.Statement, error) {
	p.recordDebugEvent("enter_if", "parsing if statement")

	cond, body, err := p.conditionalBody("If", endIf)
	if err != nil {
		return nil, err
	}

	p.countStatement()
	p.recordDebugEvent("exit_if", "if statement complete")
	return &ast.If{Condition: cond, Body: body, Line: line}, nil
}

// whileStmt: While <comparison> NEWLINE <block> Endloop
func (p *Parser) whileStmt(line int) (ast.Statement, error) {
	p.recordDebugEvent("enter_while", "parsing while loop")

	cond, body, err := p.conditionalBody("While", endLoop)
	if err != nil {
		return nil, err
	}

	p.countStatement()
	p.recordDebugEvent("exit_while", "while loop complete")
	return &ast.While{Condition: cond, Body: body, Line: line}, nil
}

func (p *Parser) conditionalBody(keyword, terminator string) (ast.Expression, *ast.Block, error) {
	cond, err := p.comparison()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectNewline("after " + keyword + " condition"); err != nil {
		return nil, nil, err
	}
	body, err := p.block(terminator)
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectTerminator(terminator); err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

// methodDef: Method <name> ( <param>, ... ) NEWLINE <block> Endmethod
func (p *Parser) methodDef(line int) (ast.Statement, error) {
	p.recordDebugEvent("enter_method", "parsing method definition")

	nameTok := p.current()
	if !isName(nameTok) {
		return nil, p.errorf("expected method name, got %s", describe(nameTok))
	}
	p.advance()

	var params []*ast.Identifier
	switch {
	case p.accept(emptyParens):
	case p.accept("("):
		terms, err := p.termList()
		if err != nil {
			return nil, err
		}
		for _, t := range terms {
			ident, ok := t.(*ast.Identifier)
			if !ok {
				return nil, p.errorAt(lexer.Token{Text: t.String()}, "method parameter must be an identifier, got %s", t.String())
			}
			params = append(params, ident)
		}
	default:
		return nil, p.errorf("expected ( after method name %s, got %s", nameTok.Text, describe(p.current()))
	}

	if err := p.expectNewline("after method signature"); err != nil {
		return nil, err
	}
	body, err := p.block(endMethod)
	if err != nil {
		return nil, err
	}
	if err := p.expectTerminator(endMethod); err != nil {
		return nil, err
	}

	p.countStatement()
	p.recordDebugEvent("exit_method", "method definition complete")
	return &ast.MethodDef{Name: nameTok.Text, Params: params, Body: body, Line: line}, nil
}

// assignment: <name> = <sumDiff> NEWLINE
func (p *Parser) assignment(name string, line int) (ast.Statement, error) {
	p.recordDebugEvent("enter_assignment", name)

	value, err := p.sumDiff()
	if err != nil {
		return nil, err
	}
	if err := p.expectNewline("after assignment"); err != nil {
		return nil, err
	}

	p.countStatement()
	return &ast.Assignment{Name: name, Value: value, Line: line}, nil
}

// methodInvoke: <name> ( <term>, ... )
func (p *Parser) methodInvoke(name string, line int, empty bool) (ast.Statement, error) {
	p.recordDebugEvent("enter_method_invoke", name)

	var args []ast.Expression
	if !empty {
		var err error
		if args, err = p.termList(); err != nil {
			return nil, err
		}
	}

	p.countStatement()
	return &ast.MethodInvoke{Name: name, Args: args, Line: line}, nil
}

// commandInvoke: <name> <term>, <term> ... NEWLINE
func (p *Parser) commandInvoke(name string, line int) (ast.Statement, error) {
	p.recordDebugEvent("enter_command", name)

	var args []ast.Expression
	for !p.at(lexer.EOF) && !p.accept("\n") {
		prevPos := p.pos
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.accept(",")
		invariant.Invariant(p.pos > prevPos, "parser stuck in commandInvoke() at pos %d", p.pos)
	}

	p.countStatement()
	return &ast.CommandInvoke{Name: name, Args: args, Line: line}, nil
}

// termList parses terms up to and including the closing ")". The opening
// "(" has been consumed. Commas between terms are optional.
func (p *Parser) termList() ([]ast.Expression, error) {
	var terms []ast.Expression
	for !p.accept(")") {
		if p.at(lexer.NEWLINE) || p.at(lexer.EOF) {
			return nil, p.errorf("expected ) before %s", describe(p.current()))
		}
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		p.accept(",")
	}
	return terms, nil
}

// block parses statements until the next lexeme is any block terminator.
// want names the terminator the caller will demand, for the end-of-script error.
func (p *Parser) block(want string) (*ast.Block, error) {
	p.recordDebugEvent("enter_block", "parsing block")

	block := &ast.Block{}
	p.countNode()
	for !isTerminator(p.current()) {
		if p.at(lexer.EOF) {
			return nil, p.errorf("unexpected end of script, expected %s", want)
		}
		if p.at(lexer.NEWLINE) {
			p.advance()
			continue
		}

		prevPos := p.pos
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)

		invariant.Invariant(p.pos > prevPos, "parser stuck in block() at pos %d", p.pos)
	}

	p.recordDebugEvent("exit_block", fmt.Sprintf("%d statements", len(block.Statements)))
	return block, nil
}

// comparison: <sumDiff> <op> <sumDiff>
func (p *Parser) comparison() (ast.Expression, error) {
	left, err := p.sumDiff()
	if err != nil {
		return nil, err
	}

	opTok := p.current()
	if opTok.Type != lexer.OPERATOR || !comparisonOperators[opTok.Text] {
		return nil, p.errorf("expected comparison operator, got %s", describe(opTok))
	}
	p.advance()

	right, err := p.sumDiff()
	if err != nil {
		return nil, err
	}

	p.countNode()
	return &ast.Comparison{Left: left, Operator: opTok.Text, Right: right}, nil
}

// sumDiff: <productQuotient> (("+" | "-") <productQuotient>)*
func (p *Parser) sumDiff() (ast.Expression, error) {
	left, err := p.productQuotient()
	if err != nil {
		return nil, err
	}

	for p.atOperator("+") || p.atOperator("-") {
		op := p.advance().Text
		right, err := p.productQuotient()
		if err != nil {
			return nil, err
		}
		p.countNode()
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// productQuotient: <term> (("*" | "/") <term>)*
func (p *Parser) productQuotient() (ast.Expression, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for p.atOperator("*") || p.atOperator("/") {
		op := p.advance().Text
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		p.countNode()
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// term: NUMBER | IDENTIFIER | "(" <term> ")"
func (p *Parser) term() (ast.Expression, error) {
	tok := p.current()

	switch {
	case tok.Type == lexer.NUMBER:
		value, err := strconv.Atoi(tok.Text)
		if err != nil {
			return nil, p.errorf("integer literal %s out of range", tok.Text)
		}
		p.advance()
		p.countNode()
		return &ast.Integer{Value: value}, nil

	case isName(tok):
		p.advance()
		p.countNode()
		return &ast.Identifier{Name: tok.Text}, nil

	case tok.Type == lexer.OPERATOR && tok.Text == "(":
		p.advance()
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, p.errorf("expected ), got %s", describe(p.current()))
		}
		return inner, nil
	}

	return nil, p.errorf("could not parse term %s", describe(tok))
}

// Helper methods

// current returns the current token, or an EOF token past the end
func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF, Line: p.line}
}

// at checks if current token is of given type
func (p *Parser) at(typ lexer.TokenType) bool {
	return p.current().Type == typ
}

// atOperator checks if current token is the operator text
func (p *Parser) atOperator(text string) bool {
	tok := p.current()
	return tok.Type == lexer.OPERATOR && tok.Text == text
}

// advance consumes and returns the current token. Consuming a NEWLINE
// moves to the next line.
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
		if tok.Type == lexer.NEWLINE {
			p.line++
		}
	}
	return tok
}

// accept consumes the current token if its lexeme is text
func (p *Parser) accept(text string) bool {
	if p.at(lexer.EOF) || p.current().Text != text {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expectNewline(context string) error {
	if !p.at(lexer.NEWLINE) {
		return p.errorf("expected newline %s, got %s", context, describe(p.current()))
	}
	p.advance()
	return nil
}

func (p *Parser) expectTerminator(terminator string) error {
	tok := p.current()
	if !isName(tok) || tok.Text != terminator {
		return p.errorf("expected %s, got %s", terminator, describe(tok))
	}
	p.advance()
	return nil
}

// isName reports whether tok can name a variable, method or command
func isName(tok lexer.Token) bool {
	return tok.Type == lexer.IDENTIFIER || tok.Type == lexer.KEYWORD
}

func isTerminator(tok lexer.Token) bool {
	if !isName(tok) {
		return false
	}
	switch tok.Text {
	case endIf, endLoop, endMethod:
		return true
	}
	return false
}
