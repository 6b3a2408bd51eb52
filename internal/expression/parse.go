package expression

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmpty      = errors.New("empty expression")
	ErrUnexpected = errors.New("unexpected token")
	ErrUnclosed   = errors.New("unclosed")
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokString
	tokPipe
	tokEquals
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("%q", t.text)
	}
	return t.text
}

func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '|':
			toks = append(toks, token{tokPipe, "|", i})
			i++
		case r == '=':
			toks = append(toks, token{tokEquals, "=", i})
			i++
		case r == '{':
			toks = append(toks, token{tokOpen, "{", i})
			i++
		case r == '}':
			toks = append(toks, token{tokClose, "}", i})
			i++
		case r == '"' || r == '\'':
			quote := r
			start := i
			var b strings.Builder
			i++
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if c == quote {
					closed = true
					i++
					break
				}
				b.WriteRune(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w string at %d", ErrUnclosed, start)
			}
			toks = append(toks, token{tokString, b.String(), start})
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && !strings.ContainsRune(`|={}"'`, runes[i]) {
				i++
			}
			toks = append(toks, token{tokWord, string(runes[start:i]), start})
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(runes)}), nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// Parse parses src into an AST.
func Parse(src string) (*AST, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, ErrEmpty
	}
	ast, err := p.chain()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w %s at %d", ErrUnexpected, t, t.pos)
	}
	return ast, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(src string) *AST {
	ast, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return ast
}

func (p *parser) chain() (*AST, error) {
	ast := &AST{}
	for {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		ast.Chain = append(ast.Chain, fn)
		if p.peek().kind != tokPipe {
			return ast, nil
		}
		p.next()
	}
}

func (p *parser) function() (Function, error) {
	t := p.next()
	if t.kind != tokWord {
		return Function{}, fmt.Errorf("%w %s at %d, want function name", ErrUnexpected, t, t.pos)
	}
	fn := Function{Name: t.text}
	for {
		switch p.peek().kind {
		case tokPipe, tokClose, tokEOF:
			return fn, nil
		}

		name := "_"
		if p.peek().kind == tokWord && p.peekAt(1).kind == tokEquals {
			name = p.next().text
			p.next()
		}
		v, err := p.value()
		if err != nil {
			return Function{}, err
		}
		fn.Args = appendArg(fn.Args, name, v)
	}
}

func (p *parser) value() (Value, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return String(t.text), nil
	case tokWord:
		return literal(t.text), nil
	case tokOpen:
		sub, err := p.chain()
		if err != nil {
			return Value{}, err
		}
		if c := p.next(); c.kind != tokClose {
			return Value{}, fmt.Errorf("%w sub-expression at %d", ErrUnclosed, t.pos)
		}
		return Sub(sub), nil
	}
	return Value{}, fmt.Errorf("%w %s at %d, want value", ErrUnexpected, t, t.pos)
}

func appendArg(args []Arg, name string, v Value) []Arg {
	for i := range args {
		if args[i].Name == name {
			args[i].Values = append(args[i].Values, v)
			return args
		}
	}
	return append(args, Arg{Name: name, Values: []Value{v}})
}
