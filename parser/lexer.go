package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode"
)

// eofRune is never produced by decoding, so a NUL in the input is an
// ordinary (and invalid) character.
const eofRune = rune(-1)

type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer // Temporary buffer for scanned text
	pos             int          // Current byte offset from the beginning of the input

	// Current line and column (rune-based) in the input
	line int
	col  int

	// The token being scanned
	token Token
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
}

// errorf reports an error at the start of the current token.
func (l *Lexer) errorf(format string, args ...any) error {
	return &ParseError{Line: l.token.Line, Col: l.token.Col, Near: l.token.Text, Msg: fmt.Sprintf(format, args...)}
}

// Position returns the line and column where the current input position is.
func (l *Lexer) Position() (line, col int) {
	return l.line, l.col
}

// --- Rune Reading Helpers (with line/col tracking) ---
func (l *Lexer) read() rune {
	if l.peek() == eofRune {
		return eofRune
	}
	r, width := l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune { return l.peekN(0) }

func (l *Lexer) peekN(nthchar int) rune {
	for len(l.lookaheadRunes) <= nthchar {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			return eofRune
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return l.lookaheadRunes[nthchar]
}

func (l *Lexer) hasPrefix(prefix string) bool {
	for i, r := range []rune(prefix) {
		if l.peekN(i) != r {
			return false
		}
	}
	return true
}

func (l *Lexer) consume(n int) {
	for range n {
		l.read()
	}
}

func (l *Lexer) readTill(stop rune) {
	for r := l.peek(); r != eofRune && r != stop; r = l.peek() {
		l.read()
	}
}

// --- Scanning Functions ---

// skipWhitespace skips spaces and the three comment forms: // and # to the
// end of the line and /* ... */ blocks.
func (l *Lexer) skipWhitespace() error {
	for {
		r := l.peek()
		switch {
		case r == eofRune:
			return nil
		case unicode.IsSpace(r):
			l.read()
		case r == '#' || l.hasPrefix("//"):
			l.readTill('\n')
		case l.hasPrefix("/*"):
			l.token = Token{Text: "/*", Pos: l.pos, Line: l.line, Col: l.col}
			l.consume(2)
			for !l.hasPrefix("*/") {
				if l.read() == eofRune {
					return l.errorf("unterminated block comment")
				}
			}
			l.consume(2)
		default:
			return nil
		}
	}
}

func (l *Lexer) scanWord() string {
	l.buf.Reset()
	for r := l.peek(); r != eofRune && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'); r = l.peek() {
		l.buf.WriteRune(l.read())
	}
	return l.buf.String()
}

func (l *Lexer) scanNumber() string {
	l.buf.Reset()
	hasDecimal := false
	for r := l.peek(); r != eofRune; r = l.peek() {
		if unicode.IsDigit(r) {
			l.buf.WriteRune(l.read())
		} else if r == '.' && !hasDecimal && unicode.IsDigit(l.peekN(1)) {
			hasDecimal = true
			l.buf.WriteRune(l.read())
		} else {
			break
		}
	}
	return l.buf.String()
}

// Next scans the next token.  At the end of input it keeps returning a
// token of kind eof.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return l.token, err
	}
	l.token = Token{Pos: l.pos, Line: l.line, Col: l.col}

	r := l.peek()
	switch {
	case r == eofRune:
		l.token.Kind = eof
		return l.token, nil
	case unicode.IsLetter(r) || r == '_':
		l.token.Text = l.scanWord()
		l.token.Kind = IDENTIFIER
		if tok, ok := keywordTokens[l.token.Text]; ok {
			l.token.Kind = tok
		}
		return l.token, nil
	case unicode.IsDigit(r):
		l.token.Kind, l.token.Text = NUMBER, l.scanNumber()
		return l.token, nil
	case r == '?' || r == '!' && unicode.IsLetter(l.peekN(1)):
		return l.scanCommand()
	}

	// Operators and Punctuation
	single := map[rune]int{
		';': SEMICOLON, ',': COMMA,
		'(': LPAREN, ')': RPAREN,
		'{': LBRACE, '}': RBRACE,
		'[': LBRACKET, ']': RBRACKET,
		'-': MINUS,
		'+': BINARY_OP, '*': BINARY_OP, '/': BINARY_OP, '%': BINARY_OP,
		'^': BINARY_OP, '&': BINARY_OP, '=': BINARY_OP,
	}
	double := map[string]int{
		":=": ASSIGN, "<=": BINARY_OP, ">=": BINARY_OP, "!=": BINARY_OP, "||": BINARY_OP,
	}
	for text, tok := range double {
		if l.hasPrefix(text) {
			l.consume(2)
			l.token.Kind, l.token.Text = tok, text
			return l.token, nil
		}
	}
	if tok, ok := single[r]; ok {
		l.read()
		l.token.Kind, l.token.Text = tok, string(r)
		return l.token, nil
	}
	switch r {
	case ':':
		l.read()
		l.token.Kind, l.token.Text = COLON, ":"
		return l.token, nil
	case '<', '>':
		l.read()
		l.token.Kind, l.token.Text = BINARY_OP, string(r)
		return l.token, nil
	}
	l.token.Text = string(r)
	return l.token, l.errorf("unexpected character '%c'", r)
}

// scanCommand scans the query forms ?Ex ?Pr ?Opt and the commands !Print
// and !Plot.
func (l *Lexer) scanCommand() (Token, error) {
	sigil := string(l.read())
	l.token.Text = sigil + l.scanWord()
	commands := map[string]int{
		"?Ex": QUERY_EX, "?Pr": QUERY_PR, "?Opt": QUERY_OPT, "!Print": PRINT, "!Plot": PLOT,
	}
	tok, ok := commands[l.token.Text]
	if !ok {
		return l.token, l.errorf("unknown query or command")
	}
	l.token.Kind = tok
	return l.token, nil
}
