package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/log"
)

var (
	ErrEmptyProgram   = errors.New("empty program")
	ErrExpecting      = errors.New("expecting character")
	ErrUnknown        = errors.New("unknown syntax")
	ErrExceedMaxSteps = errors.New("exceeded max steps")
	ErrExceedMaxDepth = errors.New("exceeded max depth")
)

// DefaultMaxDepth is the nesting limit for lists, objects and
// calls used unless MaxDepth says otherwise.
const DefaultMaxDepth = 1024

// An Option configures a parse.
type Option func(*config)

type config struct {
	maxSteps int
	maxDepth int
	trace    context.Context
}

// MaxSteps aborts parsing with ErrExceedMaxSteps once more than
// n steps have been taken. Zero means no limit.
func MaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

// MaxDepth aborts parsing with ErrExceedMaxDepth once lists,
// objects and calls nest more than n deep. Zero or less keeps
// DefaultMaxDepth; there is always a limit.
func MaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// Trace logs every parser step to ctx's logger.
func Trace(ctx context.Context) Option {
	return func(c *config) { c.trace = ctx }
}

// Parse parses src into a program tree.
func Parse(src string, opts ...Option) (askcode.Node, error) {
	return ParseWith[askcode.Node](src, askcode.CodeReducer{}, opts...)
}

// ParseWith parses src, building the result with r.
func ParseWith[T any](src string, r askcode.Reducer[T], opts ...Option) (result T, err error) {
	if strings.Trim(src, " \n") == "" {
		return result, ErrEmptyProgram
	}

	p := &parser[T]{code: []rune(src), r: r}
	p.maxDepth = DefaultMaxDepth
	for _, o := range opts {
		o(&p.config)
	}

	defer func() {
		rec := recover()
		if perr, ok := rec.(parseError); ok {
			err = perr.err
		} else if rec != nil {
			panic(rec)
		}
	}()

	result = p.program()
	return result, nil
}

// parseError carries a failure out of the recursive descent.
type parseError struct {
	err error
}

// The parser holds the state of one parse.
type parser[T any] struct {
	config
	r     askcode.Reducer[T]
	code  []rune
	index int
	steps int
	depth int
}

func (p *parser[T]) fail(err error) {
	panic(parseError{errors.WithData(err, "index", p.index)})
}

func (p *parser[T]) unknownf(format string, args ...interface{}) {
	p.fail(errors.WithDetailf(ErrUnknown, format, args...))
}

// step counts one unit of work against the budget. The label is
// only formatted when tracing.
func (p *parser[T]) step(format string, args ...interface{}) {
	p.steps++
	if p.maxSteps > 0 && p.steps > p.maxSteps {
		p.fail(errors.WithData(
			errors.WithDetailf(ErrExceedMaxSteps, "parse exceeded %d steps", p.maxSteps),
			"max", p.maxSteps,
		))
	}
	if p.trace != nil {
		log.Printkv(p.trace, "parse-step", fmt.Sprintf(format, args...), "index", p.index)
	}
}

func (p *parser[T]) atEnd() bool {
	return p.index >= len(p.code)
}

func (p *parser[T]) isAt(c rune) bool {
	return !p.atEnd() && p.code[p.index] == c
}

// expect consumes c or fails with ErrExpecting.
func (p *parser[T]) expect(c rune) {
	if !p.isAt(c) {
		p.fail(errors.WithData(
			errors.WithDetailf(ErrExpecting, "expecting %q at index %d", c, p.index),
			"char", string(c),
		))
	}
	p.step("process %c", c)
	p.index++
}

func (p *parser[T]) whitespace() {
	for p.isAt(' ') || p.isAt('\n') {
		p.index++
	}
}

func isNumberChar(c rune) bool {
	return '0' <= c && c <= '9' || c == '.' || c == '-'
}

func isIDChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

func (p *parser[T]) program() T {
	v := p.expression()
	p.whitespace()
	if !p.atEnd() {
		p.unknownf("program error at index %d", p.index)
	}
	return v
}

func (p *parser[T]) expression() T {
	p.whitespace()
	p.step("expression")
	switch {
	case p.isAt('"') || p.isAt('\''):
		return p.stringLit()
	case !p.atEnd() && isNumberChar(p.code[p.index]):
		return p.number()
	case p.isAt('['):
		return p.r.Node("list", p.items('[', ']', ',', ','))
	case p.isAt('{'):
		return p.r.Node("object", p.items('{', '}', ',', ':'))
	}
	return p.call()
}

// items parses a delimited sequence of expressions. After an
// odd number of items the separator is oddSep, otherwise sep,
// which lets objects alternate ':' and ','.
func (p *parser[T]) items(open, close, sep, oddSep rune) []T {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(errors.WithData(
			errors.WithDetailf(ErrExceedMaxDepth, "parse nested more than %d deep", p.maxDepth),
			"depth", p.depth,
			"max", p.maxDepth,
		))
	}
	p.expect(open)
	p.whitespace()
	values := []T{}
	for !p.atEnd() && !p.isAt(close) {
		v := p.expression()
		p.step("list item %d", len(values))
		values = append(values, v)
		p.whitespace()
		if !p.isAt(close) {
			if len(values)%2 == 1 {
				p.expect(oddSep)
			} else {
				p.expect(sep)
			}
		}
	}
	p.expect(close)
	p.depth--
	return values
}

func (p *parser[T]) number() T {
	p.step("number")
	start := p.index
	for !p.atEnd() && isNumberChar(p.code[p.index]) {
		p.index++
	}
	return p.r.Value(askcode.Number(p.code[start:p.index]))
}

func (p *parser[T]) stringLit() T {
	p.step("string")
	quote := p.code[p.index]
	p.expect(quote)
	start := p.index
	for !p.atEnd() && !(p.code[p.index-1] != '\\' && p.code[p.index] == quote) {
		p.index++
	}
	if p.atEnd() {
		p.unknownf("string error at index %d", p.index)
	}
	s := askcode.String(p.code[start:p.index])
	p.expect(quote)
	return p.r.Value(s)
}

func (p *parser[T]) id() string {
	p.whitespace()
	p.step("id")
	start := p.index
	for !p.atEnd() && isIDChar(p.code[p.index]) {
		p.index++
	}
	if p.index == start {
		p.unknownf("id error at index %d", p.index)
	}
	return string(p.code[start:p.index])
}

func (p *parser[T]) call() T {
	name := p.id()
	p.whitespace()
	if !p.isAt('(') {
		return p.r.ID(name)
	}
	return p.r.Node(name, p.items('(', ')', ',', ','))
}
