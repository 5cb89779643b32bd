package typeref

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Parse reads the textual form used by model files and processor arguments:
//
//	java.util.Map<String, ? extends java.lang.Number>[]
func Parse(s string) (*Reference, error) {
	p := &parser{src: []rune(norm.NFC.String(s))}
	p.skipSpace()
	if p.eof() {
		return nil, fmt.Errorf("%w: empty type reference", ErrInvalidArgument)
	}
	ref, err := p.parseType(true)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", string(p.src[p.pos]))
	}
	return ref, nil
}

// MustParse is Parse for tests and static tables.
func MustParse(s string) *Reference {
	ref, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// IsIdentifier reports whether s is a single valid identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", ErrInvalidTypeReference, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseType(allowWildcard bool) (*Reference, error) {
	p.skipSpace()
	if p.peek() == '?' {
		if !allowWildcard {
			return nil, p.errorf("wildcard not allowed here")
		}
		return p.parseWildcard()
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ref := &Reference{Name: name}
	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType(true)
			if err != nil {
				return nil, err
			}
			ref.Args = append(ref.Args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			if p.peek() == '>' {
				p.pos++
				break
			}
			return nil, p.errorf("expected ',' or '>'")
		}
	}
	for {
		p.skipSpace()
		if p.peek() != '[' {
			break
		}
		p.pos++
		p.skipSpace()
		if p.peek() != ']' {
			return nil, p.errorf("expected ']'")
		}
		p.pos++
		ref.ArrayDims++
	}
	return ref, nil
}

func (p *parser) parseWildcard() (*Reference, error) {
	p.pos++ // '?'
	p.skipSpace()
	start := p.pos
	word := p.parseWord()
	switch word {
	case "":
		return Unbounded(), nil
	case "extends", "super":
		bound, err := p.parseType(false)
		if err != nil {
			return nil, err
		}
		if word == "extends" {
			return Extends(bound), nil
		}
		return Super(bound), nil
	default:
		p.pos = start
		return nil, p.errorf("expected 'extends' or 'super' after '?'")
	}
}

func (p *parser) parseQualifiedName() (string, error) {
	var parts []string
	for {
		p.skipSpace()
		word := p.parseWord()
		if word == "" {
			return "", p.errorf("expected identifier")
		}
		parts = append(parts, word)
		if p.peek() != '.' {
			break
		}
		p.pos++
	}
	return strings.Join(parts, "."), nil
}

func (p *parser) parseWord() string {
	start := p.pos
	for !p.eof() {
		r := p.src[p.pos]
		if r == '_' || r == '$' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return string(p.src[start:p.pos])
}
