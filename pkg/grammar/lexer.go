package grammar

// Lexer tokenizes command text.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipBlanks()

	tok := Token{Offset: l.position}

	switch l.ch {
	case 0:
		if l.position >= len(l.input) {
			tok.Type = TOKEN_EOF
			return tok
		}
		tok.Type = TOKEN_ILLEGAL
		tok.Literal = string(l.ch)
	case '(':
		tok.Type, tok.Literal = TOKEN_LPAREN, "("
	case ')':
		tok.Type, tok.Literal = TOKEN_RPAREN, ")"
	case ':':
		tok.Type, tok.Literal = TOKEN_COLON, ":"
	case '\n':
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
	case '\r':
		if l.peekChar() == '\n' {
			l.readChar()
		}
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
	case '"', '\'':
		lit, ok := l.readString()
		if !ok {
			tok.Type = TOKEN_ILLEGAL
			tok.Literal = lit
			return tok
		}
		tok.Type, tok.Literal = TOKEN_STRING, lit
		return tok
	default:
		if isLetter(l.ch) {
			tok.Type = TOKEN_IDENT
			tok.Literal = l.readWhile(isLetter)
			return tok
		}
		if isDigit(l.ch) {
			tok.Type = TOKEN_DIGITS
			tok.Literal = l.readWhile(isDigit)
			return tok
		}
		tok.Type = TOKEN_ILLEGAL
		tok.Literal = string(l.ch)
	}

	l.readChar()
	return tok
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipBlanks skips spaces and tabs. Newlines are significant.
func (l *Lexer) skipBlanks() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.position
	for l.position < len(l.input) && pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a quoted literal starting at the opening quote. The
// literal ends at the matching quote and may not span lines. There is no
// escape processing.
func (l *Lexer) readString() (string, bool) {
	quote := l.ch
	l.readChar()
	start := l.position
	for {
		if l.position >= len(l.input) || l.ch == '\n' || l.ch == '\r' {
			return l.input[start:l.position], false
		}
		if l.ch == quote {
			lit := l.input[start:l.position]
			l.readChar()
			return lit, true
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isUpper(ch byte) bool {
	return 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-'
}
