// Package grammar parses the two small textual languages of an instruction:
// cell references ("<name>sheetId!A1:B2,...") and commands ("replace('a':'b')").
package grammar

// TokenType represents the type of a command token.
type TokenType int

// Token types
const (
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF

	TOKEN_IDENT   // copy, replace, ...
	TOKEN_STRING  // 'text' or "text"
	TOKEN_DIGITS  // 123
	TOKEN_LPAREN  // (
	TOKEN_RPAREN  // )
	TOKEN_COLON   // :
	TOKEN_NEWLINE // \n
)

var tokenNames = map[TokenType]string{
	TOKEN_ILLEGAL: "ILLEGAL",
	TOKEN_EOF:     "EOF",
	TOKEN_IDENT:   "IDENT",
	TOKEN_STRING:  "STRING",
	TOKEN_DIGITS:  "DIGITS",
	TOKEN_LPAREN:  "(",
	TOKEN_RPAREN:  ")",
	TOKEN_COLON:   ":",
	TOKEN_NEWLINE: "NEWLINE",
}

// String returns a readable token type name.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token of the command language.
type Token struct {
	Type    TokenType
	Literal string
	Offset  int // byte offset of the first character
}
