package grammar

// sheetIDRuns is the number of hyphen-separated hex runs in a sheet id.
const sheetIDRuns = 5

// refParser is a character-level recursive-descent parser for references.
// Sheet ids and coordinates share characters (A1 is also hex), so the
// grammar is parsed positionally rather than from a token stream.
type refParser struct {
	input string
	pos   int
}

// ParseReferences parses a non-empty, comma-separated list of references.
func ParseReferences(src string) ([]Reference, error) {
	p := &refParser{input: src}
	p.skipBlanks()

	var refs []Reference
	for {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)

		p.skipBlanks()
		if !p.accept(',') {
			break
		}
		p.skipBlanks()
	}

	if !p.atEnd() {
		return nil, p.errorf("unexpected %q after reference", p.input[p.pos])
	}
	return refs, nil
}

// ParseReference parses exactly one reference.
func ParseReference(src string) (Reference, error) {
	refs, err := ParseReferences(src)
	if err != nil {
		return Reference{}, err
	}
	if len(refs) != 1 {
		return Reference{}, newParseError(GrammarReference, src, 0,
			"expected a single reference, found %d", len(refs))
	}
	return refs[0], nil
}

// IsSheetID reports whether s matches the sheet id production on its own.
func IsSheetID(s string) bool {
	p := &refParser{input: s}
	_, err := p.parseSheetID()
	return err == nil && p.atEnd()
}

func (p *refParser) parseRef() (Reference, error) {
	var ref Reference

	if p.accept('<') {
		name := p.readWhile(isNameChar)
		if name == "" {
			return ref, p.errorf("empty reference name")
		}
		if !p.accept('>') {
			return ref, p.errorf("expected '>' after reference name")
		}
		ref.Name = name
	}

	id, err := p.parseSheetID()
	if err != nil {
		return ref, err
	}
	ref.SheetID = id

	if !p.accept('!') {
		return ref, p.errorf("expected '!' after sheet id")
	}

	origin, err := p.parseCoordinate()
	if err != nil {
		return ref, err
	}
	if !p.accept(':') {
		return ref, p.errorf("expected ':' between coordinates")
	}
	corner, err := p.parseCoordinate()
	if err != nil {
		return ref, err
	}

	ref.Frame = FrameRef{Origin: origin, Corner: corner}
	return ref, nil
}

// parseSheetID reads five hyphen-separated runs of hex digits.
func (p *refParser) parseSheetID() (string, error) {
	start := p.pos
	for i := 0; i < sheetIDRuns; i++ {
		if i > 0 && !p.accept('-') {
			return "", p.errorf("sheet id needs %d hyphen-separated hex runs, found %d", sheetIDRuns, i)
		}
		if p.readWhile(isHexDigit) == "" {
			return "", p.errorf("expected hex digits in sheet id")
		}
	}
	return p.input[start:p.pos], nil
}

// parseCoordinate reads one or more uppercase letters followed by optional digits.
func (p *refParser) parseCoordinate() (Coordinate, error) {
	column := p.readWhile(isUpper)
	if column == "" {
		return Coordinate{}, p.errorf("expected column letters")
	}
	return Coordinate{Column: column, Row: p.readWhile(isDigit)}, nil
}

func (p *refParser) atEnd() bool {
	return p.pos >= len(p.input)
}

func (p *refParser) accept(ch byte) bool {
	if !p.atEnd() && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *refParser) readWhile(pred func(byte) bool) string {
	start := p.pos
	for !p.atEnd() && pred(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *refParser) skipBlanks() {
	for !p.atEnd() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *refParser) errorf(format string, args ...any) *ParseError {
	return newParseError(GrammarReference, p.input, p.pos, format, args...)
}
