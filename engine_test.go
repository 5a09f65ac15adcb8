package pagetags

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderSink struct{ elements []Element }

func (r *recorderSink) OnElement(el Element) { r.elements = append(r.elements, el) }

func text(s string) TextToken { return TextToken{Text: s} }

func open(name string, pairs ...string) RawTag {
	return RawTag{Name: name, Attrs: AttributesOf(pairs...)}
}

func directive(name string, pairs ...string) RawTag {
	return RawTag{Name: name, Attrs: AttributesOf(pairs...), Directive: true}
}

func closing(name string) RawTag { return RawTag{Name: name, Closing: true} }

func markup(els []Element) []string {
	var out []string
	for _, el := range els {
		switch v := el.(type) {
		case *PlainText:
			out = append(out, v.Text())
		case TagElement:
			out = append(out, v.PlainMarkup())
		}
	}
	return out
}

func Test_Engine(t *testing.T) {
	t.Run("should classify a whole page", func(t *testing.T) {
		engine := NewEngine()
		sink := &recorderSink{}
		src := TokensOf(
			directive("page", "Language", "C#"),
			directive("Register", "TagPrefix", "uc1", "TagName", "Greeting", "Src", "~/Greeting.ascx"),
			text("\n<!-- head -->"),
			text("\n"),
			open("form", "runat", "server"),
			open("uc1:Greeting", "ID", "hello", "runat", "server"),
			CodeToken{Code: "Name", Expr: true},
			closing("uc1:Greeting"),
			RawTag{Name: "br", SelfClosing: true},
			closing("form"),
		)
		require.NoError(t, engine.Process(context.Background(), src, sink))

		want := []string{
			`<PAGE Language="C#" />`,
			`<REGISTER TagPrefix="uc1" TagName="Greeting" Src="~/Greeting.ascx" />`,
			"\n<!-- head -->\n",
			`<form runat="server" ID="_control1">`,
			`<uc1:Greeting ID="hello" runat="server">`,
			`<%= Name %>`,
			`</uc1:Greeting>`,
			`<br />`,
			`</form>`,
		}
		if diff := cmp.Diff(want, markup(sink.elements)); diff != "" {
			t.Errorf("Process() mismatch (-want +got):\n%s", diff)
		}

		comp, ok := sink.elements[4].(*Component)
		require.True(t, ok)
		assert.Equal(t, TypeRef("~/Greeting.ascx"), comp.ComponentType())
		closer, ok := sink.elements[6].(*Component)
		require.True(t, ok)
		assert.True(t, closer.IsCloseTag())
	})

	t.Run("should not leak page registrations to the shared registry", func(t *testing.T) {
		engine := NewEngine()
		src := TokensOf(directive("Register", "TagPrefix", "uc1", "TagName", "A", "Src", "a.ascx"))
		require.NoError(t, engine.Process(context.Background(), src, &Collector{}))
		_, ok := engine.Registry().Resolve("uc1", "A")
		assert.False(t, ok)

		err := engine.Process(context.Background(), TokensOf(RawTag{Name: "uc1:A", SelfClosing: true}), &Collector{})
		var unk *UnknownComponentError
		assert.ErrorAs(t, err, &unk)
	})

	t.Run("should use the shared registry", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterNamespace("asp", "System.Web.UI.WebControls", "")
		engine := NewEngine(WithRegistry(reg))
		col := &Collector{}
		require.NoError(t, engine.Process(context.Background(),
			TokensOf(RawTag{Name: "asp:Label", Attrs: AttributesOf("id", "l1"), SelfClosing: true}), col))
		require.Len(t, col.Elements(), 1)
		assert.Equal(t, TypeRef("System.Web.UI.WebControls.Label"), col.Elements()[0].(*Component).ComponentType())
	})

	t.Run("should reject closing components without an opener", func(t *testing.T) {
		engine := NewEngine(WithRegistry(namespaceRegistry()))
		src := TokensOf(
			open("asp:Panel"),
			RawTag{Name: "asp:Label", Closing: true, Pos: Position{Line: 3, Column: 5}},
		)
		err := engine.Process(context.Background(), src, &Collector{})
		var unmatched *UnmatchedTagError
		require.ErrorAs(t, err, &unmatched)
		assert.Equal(t, "asp:Label", unmatched.TagName)
		assert.Equal(t, 3, unmatched.Pos.Line)
	})

	t.Run("should reject components that are never closed", func(t *testing.T) {
		engine := NewEngine(WithRegistry(namespaceRegistry()))
		src := TokensOf(RawTag{Name: "asp:Panel", Pos: Position{Line: 1, Column: 1}}, text("x"))
		err := engine.Process(context.Background(), src, &Collector{})
		var malformed *MalformedTagError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "asp:Panel", malformed.TagName)
	})

	t.Run("should apply the unknown component policy", func(t *testing.T) {
		src := func() TokenSource {
			return TokensOf(open("x:Thing", "a", "1"), text("body"), closing("x:Thing"))
		}

		err := NewEngine().Process(context.Background(), src(), &Collector{})
		assert.ErrorIs(t, err, ErrInvalidArgument)

		dropped := &Collector{}
		require.NoError(t, NewEngine(WithUnknownPolicy(UnknownDrop)).Process(context.Background(), src(), dropped))
		assert.Equal(t, []string{"body"}, markup(dropped.Elements()))

		literal := &Collector{}
		require.NoError(t, NewEngine(WithUnknownPolicy(UnknownLiteral)).Process(context.Background(), src(), literal))
		assert.Equal(t, []string{`<x:Thing a="1">`, "body", "</x:Thing>"}, markup(literal.Elements()))
		assert.Equal(t, TagHTML, literal.Elements()[0].(TagElement).Type())
	})

	t.Run("should validate directives", func(t *testing.T) {
		err := NewEngine().Process(context.Background(), TokensOf(directive("Import")), &Collector{})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)

		err = NewEngine(WithValidators(NewValidatorRegistry())).Process(context.Background(), TokensOf(directive("Import")), &Collector{})
		assert.NoError(t, err)
	})

	t.Run("should stop on classification errors", func(t *testing.T) {
		sink := &recorderSink{}
		err := NewEngine().Process(context.Background(), TokensOf(
			text("before"),
			open("input", "runat", "server"),
			text("after"),
		), sink)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Empty(t, sink.elements)
	})

	t.Run("should honour cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewEngine().Process(ctx, TokensOf(text("x")), &Collector{})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should surface token source errors", func(t *testing.T) {
		boom := errors.New("boom")
		err := NewEngine().Process(context.Background(), failingSource{err: boom}, &Collector{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("should accept sink funcs", func(t *testing.T) {
		var n int
		sink := ElementSinkFunc(func(Element) { n++ })
		require.NoError(t, NewEngine().Process(context.Background(), TokensOf(text("a"), open("p"), text("b")), sink))
		assert.Equal(t, 3, n)
	})
}

type failingSource struct{ err error }

func (f failingSource) Next() (Token, error) { return nil, f.err }

func namespaceRegistry() *Registry {
	reg := NewRegistry()
	reg.RegisterNamespace("asp", "System.Web.UI.WebControls", "")
	return reg
}

func Test_Engine_ProcessPages(t *testing.T) {
	t.Run("should give every page distinct control IDs", func(t *testing.T) {
		engine := NewEngine()
		const pages, perPage = 12, 25
		var srcs []TokenSource
		for range pages {
			var toks []Token
			for range perPage {
				toks = append(toks, open("div", "runat", "server"), closing("div"))
			}
			srcs = append(srcs, TokensOf(toks...))
		}
		results, err := engine.ProcessPages(context.Background(), srcs, 4)
		require.NoError(t, err)
		require.Len(t, results, pages)

		seen := map[string]bool{}
		for _, els := range results {
			require.Len(t, els, 2*perPage)
			for _, el := range els {
				if h, ok := el.(*HTMLControlTag); ok {
					require.False(t, seen[h.Identity()], "duplicate %s", h.Identity())
					seen[h.Identity()] = true
				}
			}
		}
		assert.Len(t, seen, pages*perPage)
		assert.Equal(t, uint64(pages*perPage+1), engine.Classifier().IDs().Peek())
	})

	t.Run("should report the failing page", func(t *testing.T) {
		engine := NewEngine()
		_, err := engine.ProcessPages(context.Background(), []TokenSource{
			TokensOf(text("fine")),
			TokensOf(open("input", "runat", "server")),
		}, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page 1")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("should handle no pages", func(t *testing.T) {
		results, err := NewEngine().ProcessPages(context.Background(), nil, 4)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func Test_TokensOf(t *testing.T) {
	src := TokensOf(text("a"))
	tok, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, text("a"), tok)
	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}
