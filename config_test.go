package pagetags

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
id_prefix = "_ctl"
id_start = 40
unknown_components = "literal"

[[register]]
tag_prefix = "uc1"
tag_name = "Greeting"
src = "~/Greeting.ascx"

[[register]]
tag_prefix = "asp"
namespace = "System.Web.UI.WebControls"
assembly = "System.Web"
`

func Test_Config(t *testing.T) {
	t.Run("should decode and build an engine", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(sampleConfig))
		require.NoError(t, err)
		assert.Equal(t, "_ctl", cfg.IDPrefix)
		assert.Equal(t, int64(40), cfg.IDStart)
		require.Len(t, cfg.Register, 2)

		engine, err := NewEngineFromConfig(cfg)
		require.NoError(t, err)
		col := &Collector{}
		require.NoError(t, engine.Process(context.Background(), TokensOf(
			open("span", "runat", "server"),
			RawTag{Name: "uc1:Greeting", SelfClosing: true},
			RawTag{Name: "asp:Label", SelfClosing: true},
			RawTag{Name: "other:Thing", SelfClosing: true},
		), col))

		els := col.Elements()
		require.Len(t, els, 4)
		assert.Equal(t, "_ctl40", els[0].(*HTMLControlTag).Identity())
		assert.Equal(t, TypeRef("~/Greeting.ascx"), els[1].(*Component).ComponentType())
		assert.Equal(t, TypeRef("System.Web.UI.WebControls.Label, System.Web"), els[2].(*Component).ComponentType())
		assert.Equal(t, TagHTML, els[3].(TagElement).Type())
	})

	t.Run("should default to strict settings", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		engine, err := NewEngineFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), engine.Classifier().IDs().Peek())
		err = engine.Process(context.Background(), TokensOf(RawTag{Name: "a:B", SelfClosing: true}), &Collector{})
		var unk *UnknownComponentError
		assert.ErrorAs(t, err, &unk)
	})

	t.Run("should reject bad configuration", func(t *testing.T) {
		for name, src := range map[string]string{
			"syntax":         `id_prefix = `,
			"unknown key":    `colour = "red"`,
			"negative start": `id_start = -1`,
			"bad policy":     `unknown_components = "maybe"`,
			"bad register":   "[[register]]\ntag_prefix = \"uc1\"\n",
			"bad prefix":     "[[register]]\ntag_prefix = \"1x\"\nnamespace = \"N\"\n",
		} {
			cfg, err := LoadConfig(strings.NewReader(src))
			if err == nil {
				_, err = NewEngineFromConfig(cfg)
			}
			assert.Error(t, err, name)
		}
	})
}

func Test_ParseUnknownComponentPolicy(t *testing.T) {
	for in, want := range map[string]UnknownComponentPolicy{
		"":        UnknownFail,
		"fail":    UnknownFail,
		" DROP ":  UnknownDrop,
		"Literal": UnknownLiteral,
	} {
		got, err := ParseUnknownComponentPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, "literal", UnknownLiteral.String())
}
