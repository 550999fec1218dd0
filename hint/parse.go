/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package hint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"dirpx.dev/typecheck/shape"
)

var (
	// ErrSyntax is returned for malformed hint expressions.
	ErrSyntax = errors.New("typecheck(hint): syntax error")
	// ErrUnknownName is returned when an expression names an undefined hint.
	ErrUnknownName = errors.New("typecheck(hint): unknown name")
	// ErrReservedName is returned when Define targets a builtin name.
	ErrReservedName = errors.New("typecheck(hint): reserved name")
	// ErrRedefined is returned when Define rebinds a name to a different hint.
	ErrRedefined = errors.New("typecheck(hint): name already defined")
)

var builtinNames = map[string]Hint{
	"Any":         Any,
	"object":      Any,
	"None":        None,
	"int":         Int,
	"uint":        Uint,
	"float":       Float,
	"complex":     Complex,
	"str":         Str,
	"bool":        Bool,
	"bytes":       Bytes,
	"list":        List,
	"List":        List,
	"dict":        Dict,
	"Dict":        Dict,
	"tuple":       Tuple,
	"Tuple":       Tuple,
	"set":         Set,
	"Set":         Set,
	"frozenset":   FrozenSet,
	"FrozenSet":   FrozenSet,
	"frozendict":  FrozenDict,
	"Never":       Never,
	"Mapping":     Mapping,
	"AbstractSet": AbstractSet,
	"Sequence":    Sequence,
	"Collection":  Collection,
	"Iterable":    Iterable,
	"Callable":    Callable,
	"Required":    MarkerRequired,
	"NotRequired": MarkerNotRequired,
	"ReadOnly":    MarkerReadOnly,
}

// special forms that take arguments but are not classes.
var specialForms = map[string]bool{"Optional": true, "Union": true, "Literal": true}

// Parser turns hint expressions into hints. It carries user definitions
// and is safe for concurrent use.
type Parser struct {
	mu   sync.RWMutex
	defs map[string]Hint
}

// NewParser returns a parser knowing only the builtin names.
func NewParser() *Parser {
	return &Parser{defs: make(map[string]Hint)}
}

// Define binds name to h. Defining the same hint twice is a no-op.
func (p *Parser) Define(name string, h Hint) error {
	if h == nil || !validName(name) {
		return fmt.Errorf("%w: invalid definition %q", ErrSyntax, name)
	}
	if _, ok := builtinNames[name]; ok || specialForms[name] {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.defs[name]; ok {
		if Equal(prev, h) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrRedefined, name)
	}
	p.defs[name] = h
	return nil
}

// Lookup returns the hint bound to name, builtin or defined.
func (p *Parser) Lookup(name string) (Hint, bool) {
	if h, ok := builtinNames[name]; ok {
		return h, true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.defs[name]
	return h, ok
}

// Parse parses a hint expression.
func (p *Parser) Parse(expr string) (Hint, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	ps := &parseState{p: p, toks: toks}
	h, err := ps.union()
	if err != nil {
		return nil, err
	}
	if t := ps.peek(); t.kind != tokEOF {
		return nil, ps.errorf(t, "unexpected %q", t.text)
	}
	return h, nil
}

// MustParse is like Parse but panics on error.
func (p *Parser) MustParse(expr string) Hint {
	h, err := p.Parse(expr)
	if err != nil {
		panic(err)
	}
	return h
}

var defaultParser = NewParser()

// Parse parses expr with the builtin names only.
func Parse(expr string) (Hint, error) { return defaultParser.Parse(expr) }

// MustParse is like Parse but panics on error.
func MustParse(expr string) Hint { return defaultParser.MustParse(expr) }

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokName
	tokString
	tokNumber
	tokEllipsis
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && (unicode.IsDigit(r) || r == '.')) {
			continue
		}
		return false
	}
	return true
}

func lex(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case strings.HasPrefix(s[i:], "..."):
			toks = append(toks, token{tokEllipsis, "...", i})
			i += 3
		case strings.ContainsRune("[],|{}:", rune(c)):
			toks = append(toks, token{tokPunct, string(c), i})
			i++
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(s) && s[j] != c {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(s) {
				return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, i)
			}
			raw := s[i : j+1]
			if c == '\'' {
				raw = `"` + strings.ReplaceAll(s[i+1:j], `"`, `\"`) + `"`
			}
			text, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: bad string at offset %d", ErrSyntax, i)
			}
			toks = append(toks, token{tokString, text, i})
			i = j + 1
		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.' || s[j] == 'e' || s[j] == 'E') {
				j++
			}
			toks = append(toks, token{tokNumber, s[i:j], i})
			i = j
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i + 1
			for j < len(s) && (s[j] == '_' || s[j] == '.' || unicode.IsLetter(rune(s[j])) || unicode.IsDigit(rune(s[j]))) {
				j++
			}
			toks = append(toks, token{tokName, s[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

type parseState struct {
	p    *Parser
	toks []token
	at   int
}

func (ps *parseState) peek() token { return ps.toks[ps.at] }

func (ps *parseState) next() token {
	t := ps.toks[ps.at]
	if t.kind != tokEOF {
		ps.at++
	}
	return t
}

func (ps *parseState) accept(punct string) bool {
	if t := ps.peek(); t.kind == tokPunct && t.text == punct {
		ps.at++
		return true
	}
	return false
}

func (ps *parseState) expect(punct string) error {
	if ps.accept(punct) {
		return nil
	}
	t := ps.peek()
	return ps.errorf(t, "expected %q, got %q", punct, t.text)
}

func (ps *parseState) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, fmt.Sprintf(format, args...), t.pos)
}

func (ps *parseState) union() (Hint, error) {
	first, err := ps.term()
	if err != nil {
		return nil, err
	}
	members := []Hint{first}
	for ps.accept("|") {
		h, err := ps.term()
		if err != nil {
			return nil, err
		}
		members = append(members, h)
	}
	if len(members) == 1 {
		return first, nil
	}
	return UnionOf(members...), nil
}

func (ps *parseState) list(closer string, item func() (Hint, error)) ([]Hint, error) {
	var out []Hint
	if ps.accept(closer) {
		return out, nil
	}
	for {
		h, err := item()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
		if ps.accept(closer) {
			return out, nil
		}
		if err := ps.expect(","); err != nil {
			return nil, err
		}
	}
}

func (ps *parseState) term() (Hint, error) {
	t := ps.next()
	switch {
	case t.kind == tokEllipsis:
		return Ellipsis, nil
	case t.kind == tokPunct && t.text == "[":
		items, err := ps.list("]", ps.union)
		if err != nil {
			return nil, err
		}
		return ParamsOf(items...), nil
	case t.kind == tokPunct && t.text == "{":
		return ps.structBody()
	case t.kind == tokName:
		return ps.named(t)
	default:
		return nil, ps.errorf(t, "unexpected %q", t.text)
	}
}

func (ps *parseState) named(t token) (Hint, error) {
	if t.text == "Literal" {
		if err := ps.expect("["); err != nil {
			return nil, err
		}
		var values []any
		if _, err := ps.list("]", func() (Hint, error) {
			v, err := ps.literalValue()
			values = append(values, v)
			return Any, err
		}); err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, ps.errorf(t, "Literal[] needs values")
		}
		return LiteralOf(values...), nil
	}

	var args []Hint
	hasArgs := ps.accept("[")
	if hasArgs {
		var err error
		if args, err = ps.list("]", ps.union); err != nil {
			return nil, err
		}
	}

	switch t.text {
	case "Optional":
		if len(args) != 1 {
			return nil, ps.errorf(t, "Optional takes one argument")
		}
		return Optional(args[0]), nil
	case "Union":
		if len(args) == 0 {
			return nil, ps.errorf(t, "Union needs arguments")
		}
		return UnionOf(args...), nil
	}

	base, ok := ps.p.Lookup(t.text)
	if !ok {
		return nil, fmt.Errorf("%w: %s at offset %d", ErrUnknownName, t.text, t.pos)
	}
	if !hasArgs {
		return base, nil
	}
	cls, ok := base.(*Class)
	if !ok {
		return nil, ps.errorf(t, "%s cannot be parameterized", t.text)
	}
	if len(args) == 0 {
		return nil, ps.errorf(t, "%s[] needs arguments", t.text)
	}
	if cls.form == FormNone || (cls.form == FormBuiltin && cls.structure == shape.None) {
		return nil, ps.errorf(t, "%s is not generic", t.text)
	}
	if cls == Callable {
		if len(args) != 2 {
			return nil, ps.errorf(t, "Callable takes a parameter list and a result")
		}
		switch args[0].(type) {
		case *Params, ellipsisHint:
		default:
			return nil, ps.errorf(t, "Callable parameters must be [..] or ...")
		}
		return CallableOf(args[0], args[1]), nil
	}
	for i, a := range args {
		if a == Ellipsis && !(cls == Tuple && i == 1 && len(args) == 2) {
			return nil, ps.errorf(t, "... is only valid as tuple[T, ...]")
		}
		if _, isParams := a.(*Params); isParams {
			return nil, ps.errorf(t, "parameter list outside Callable")
		}
	}
	if cls.form == FormMarker && len(args) != 1 {
		return nil, ps.errorf(t, "%s takes one argument", t.text)
	}
	return Of(cls, args...), nil
}

func (ps *parseState) literalValue() (any, error) {
	t := ps.next()
	switch t.kind {
	case tokString:
		return t.text, nil
	case tokNumber:
		if i, err := strconv.Atoi(t.text); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, ps.errorf(t, "bad number %q", t.text)
		}
		return f, nil
	case tokName:
		switch t.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
	}
	return nil, ps.errorf(t, "bad literal %q", t.text)
}

func (ps *parseState) structBody() (Hint, error) {
	var fields []Field
	if !ps.accept("}") {
		for {
			t := ps.next()
			if t.kind != tokString && t.kind != tokName {
				return nil, ps.errorf(t, "expected field name, got %q", t.text)
			}
			if err := ps.expect(":"); err != nil {
				return nil, err
			}
			h, err := ps.union()
			if err != nil {
				return nil, err
			}
			for _, f := range fields {
				if f.Name == t.text {
					return nil, ps.errorf(t, "duplicate field %q", t.text)
				}
			}
			fields = append(fields, Field{Name: t.text, Hint: h})
			if ps.accept("}") {
				break
			}
			if err := ps.expect(","); err != nil {
				return nil, err
			}
		}
	}
	return StructOf("", fields), nil
}
