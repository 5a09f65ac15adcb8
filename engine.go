package pagetags

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// NewEngine returns an engine that classifies a page token by token.
// By default it has an empty shared Registry, DefaultValidators and UnknownFail.
func NewEngine(opts ...func(*Engine)) *Engine {
	e := &Engine{policy: UnknownFail}
	for _, o := range opts {
		o(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	if e.validators == nil {
		e.validators = DefaultValidators()
	}
	copts := append([]ClassifierOption{WithResolver(e.registry)}, e.copts...)
	e.classifier = NewClassifier(copts...)
	return e
}

func WithUnknownPolicy(p UnknownComponentPolicy) func(*Engine) {
	return func(e *Engine) { e.policy = p }
}

// WithRegistry sets the registry shared by every page. Register directives found
// in a page are only visible to that page.
func WithRegistry(r *Registry) func(*Engine) {
	return func(e *Engine) { e.registry = r }
}

func WithValidators(v *ValidatorRegistry) func(*Engine) {
	return func(e *Engine) { e.validators = v }
}

func WithClassifierOptions(opts ...ClassifierOption) func(*Engine) {
	return func(e *Engine) { e.copts = append(e.copts, opts...) }
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// Registry returns the shared registry.
func (e *Engine) Registry() *Registry { return e.registry }

// ===== Tokens =====

// Token is one item produced by the tokenizer: TextToken, CodeToken or RawTag.
type Token interface{ isToken() }

// TextToken is a run of literal page content.
type TextToken struct {
	Text string
}

func (TextToken) isToken() {}

// CodeToken is an inline code block.
type CodeToken struct {
	Code string
	Expr bool // <%= %> form
	Pos  Position
}

func (CodeToken) isToken() {}

// TokenSource yields tokens in source order and io.EOF after the last one.
type TokenSource interface {
	Next() (Token, error)
}

type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) Next() (Token, error) {
	if s.pos >= len(s.toks) {
		return nil, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// TokensOf returns a TokenSource over toks.
func TokensOf(toks ...Token) TokenSource {
	return &sliceSource{toks: toks}
}

// ===== Sink =====

type ElementSink interface {
	OnElement(el Element)
}

type ElementSinkFunc func(el Element)

func (f ElementSinkFunc) OnElement(el Element) { f(el) }

// Collector is an ElementSink that keeps every element.
type Collector struct {
	elements []Element
}

func (c *Collector) OnElement(el Element) { c.elements = append(c.elements, el) }

// Elements returns the collected elements in emission order.
func (c *Collector) Elements() []Element { return c.elements }

// ===== Engine =====

type openComponent struct {
	c   *Component
	pos Position
}

// page holds the state of one Process call.
type page struct {
	e          *Engine
	classifier *Classifier
	registry   *Registry
	text       *PlainText
	open       []openComponent
	sink       ElementSink
}

// Process classifies every token of src and emits the elements to sink.
// Adjacent text tokens are merged into one PlainText. Register directives are
// validated and recorded for the rest of the page. Closing server components must
// match the innermost open one, and every opened component must be closed.
func (e *Engine) Process(ctx context.Context, src TokenSource, sink ElementSink) error {
	local := NewRegistry()
	p := &page{
		e:          e,
		classifier: e.classifier.withResolver(ResolverChain{local, e.classifier.resolver}),
		registry:   local,
		sink:       sink,
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := p.handle(tok); err != nil {
			return err
		}
	}
	p.flush()
	if n := len(p.open); n > 0 {
		top := p.open[n-1]
		return NewMalformedTagError(top.pos, top.c.Name(), "server component is never closed")
	}
	return nil
}

func (p *page) flush() {
	if p.text != nil {
		p.sink.OnElement(p.text)
		p.text = nil
	}
}

func (p *page) handle(tok Token) error {
	switch t := tok.(type) {
	case TextToken:
		if t.Text == "" {
			return nil
		}
		if p.text == nil {
			p.text = NewPlainText(t.Text)
		} else {
			p.text.Append(t.Text)
		}
		return nil
	case CodeToken:
		p.flush()
		p.sink.OnElement(p.classifier.ClassifyCode(t.Code, t.Expr))
		return nil
	case RawTag:
		el, err := p.classify(t)
		if err != nil {
			return err
		}
		if el != nil {
			p.flush()
			p.sink.OnElement(el)
		}
		return nil
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
}

func (p *page) classify(raw RawTag) (TagElement, error) {
	el, err := p.classifier.Classify(raw)
	if err != nil {
		var unknown *UnknownComponentError
		if !errors.As(err, &unknown) {
			return nil, err
		}
		switch p.e.policy {
		case UnknownDrop:
			return nil, nil
		case UnknownLiteral:
			return literalTag(raw)
		default:
			return nil, err
		}
	}

	switch v := el.(type) {
	case *Directive:
		if err := p.e.validators.ValidateDirective(v, raw.Pos); err != nil {
			return nil, err
		}
		if err := p.registry.RegisterDirective(v); err != nil {
			return nil, withPos(err, raw.Pos)
		}
	case *Component:
		switch {
		case v.IsCloseTag():
			n := len(p.open)
			if n == 0 || !p.open[n-1].c.Matches(v) {
				return nil, NewUnmatchedTagError(raw.Pos, v.Name())
			}
			p.open = p.open[:n-1]
		case !v.SelfClosing():
			p.open = append(p.open, openComponent{c: v, pos: raw.Pos})
		}
	}
	return el, nil
}

// literalTag builds the plain HTML form of a tag that could not be resolved.
func literalTag(raw RawTag) (TagElement, error) {
	name, closing := raw.normalize()
	if closing {
		return NewCloseTag(name)
	}
	tag, err := NewTag(name, raw.Attrs, raw.SelfClosing)
	if err != nil {
		return nil, err
	}
	tag.typ = TagHTML
	return tag, nil
}

// ProcessPages classifies pages concurrently, at most jobs at a time, and returns
// the elements of each page in input order. All pages share the engine's ID counter,
// so synthesized IDs are unique across the whole batch.
func (e *Engine) ProcessPages(ctx context.Context, pages []TokenSource, jobs int) ([][]Element, error) {
	results := make([][]Element, len(pages))
	if len(pages) == 0 {
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(pages))))

	for i, src := range pages {
		g.Go(func() error {
			col := &Collector{}
			if err := e.Process(gctx, src, col); err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			results[i] = col.Elements()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
