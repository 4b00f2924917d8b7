package grammar

// cmdParser parses command text from the lexer's token stream.
type cmdParser struct {
	l     *Lexer
	input string

	curToken  Token
	peekToken Token
}

// ParseCommand parses one command, e.g. copy(), join(",") or
// replace('a':'AAA'\n'b':'BBB').
func ParseCommand(src string) (Command, error) {
	p := &cmdParser{l: NewLexer(src), input: src}
	p.nextToken()
	p.nextToken()
	return p.parseCommand()
}

func (p *cmdParser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *cmdParser) parseCommand() (Command, error) {
	if p.curToken.Type != TOKEN_IDENT {
		return Command{}, p.unexpected("command name")
	}
	name := p.curToken.Literal
	kind, ok := commandArgs[name]
	if !ok {
		return Command{}, p.errorf(p.curToken.Offset, "unknown command %q", name)
	}
	p.nextToken()

	if err := p.expect(TOKEN_LPAREN, "'('"); err != nil {
		return Command{}, err
	}

	cmd := Command{Name: name}
	switch kind {
	case argNone:
		cmd.Args = NoArgs{}
	case argPairs:
		pairs, err := p.parsePairs()
		if err != nil {
			return Command{}, err
		}
		cmd.Args = pairs
	case argLiteral:
		if p.curToken.Type != TOKEN_STRING {
			return Command{}, p.unexpected("string literal")
		}
		cmd.Args = Literal(p.curToken.Literal)
		p.nextToken()
	}

	if err := p.expect(TOKEN_RPAREN, "')'"); err != nil {
		return Command{}, err
	}
	p.skipNewlines()
	if p.curToken.Type != TOKEN_EOF {
		return Command{}, p.unexpected("end of command")
	}
	return cmd, nil
}

// parsePairs reads a newline-separated, non-empty list of key:value pairs.
// Blank lines around and between pairs are allowed.
func (p *cmdParser) parsePairs() (Pairs, error) {
	p.skipNewlines()

	var pairs Pairs
	for {
		pair, err := p.parsePair()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)

		if p.curToken.Type != TOKEN_NEWLINE {
			break
		}
		p.skipNewlines()
		if p.curToken.Type == TOKEN_RPAREN {
			break
		}
	}
	return pairs, nil
}

func (p *cmdParser) parsePair() (Pair, error) {
	if p.curToken.Type != TOKEN_STRING {
		return Pair{}, p.unexpected("string literal")
	}
	key := p.curToken.Literal
	p.nextToken()

	if err := p.expect(TOKEN_COLON, "':'"); err != nil {
		return Pair{}, err
	}

	switch p.curToken.Type {
	case TOKEN_STRING, TOKEN_DIGITS:
		value := p.curToken.Literal
		p.nextToken()
		return Pair{key, value}, nil
	default:
		return Pair{}, p.unexpected("string literal or digits")
	}
}

func (p *cmdParser) skipNewlines() {
	for p.curToken.Type == TOKEN_NEWLINE {
		p.nextToken()
	}
}

func (p *cmdParser) expect(t TokenType, what string) error {
	if p.curToken.Type != t {
		return p.unexpected(what)
	}
	p.nextToken()
	return nil
}

func (p *cmdParser) unexpected(what string) *ParseError {
	tok := p.curToken
	switch tok.Type {
	case TOKEN_EOF:
		return p.errorf(tok.Offset, "expected %s, got end of input", what)
	case TOKEN_ILLEGAL:
		return p.errorf(tok.Offset, "expected %s, got illegal text %q", what, tok.Literal)
	default:
		return p.errorf(tok.Offset, "expected %s, got %s %q", what, tok.Type, tok.Literal)
	}
}

func (p *cmdParser) errorf(offset int, format string, args ...any) *ParseError {
	return newParseError(GrammarCommand, p.input, offset, format, args...)
}
