package pagetags

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func samplePage(t *testing.T) []Element {
	t.Helper()
	engine := NewEngine(WithRegistry(namespaceRegistry()))
	col := &Collector{}
	require.NoError(t, engine.Process(context.Background(), TokensOf(
		text("Hi "),
		open("input", "type", "text", "runat", "server", "disabled"),
		RawTag{Name: "asp:Label", Attrs: AttributesOf("ID", "l1"), SelfClosing: true},
		CodeToken{Code: "x++;"},
	), col))
	return col.Elements()
}

func Test_Records(t *testing.T) {
	t.Run("should flatten each variant", func(t *testing.T) {
		got := RecordsOf(samplePage(t))
		want := []Record{
			{Kind: "PlainText", Text: "Hi "},
			{
				Kind: "Tag", Name: "input", Type: "HTMLCONTROL",
				Attrs: []AttrRecord{
					{Name: "type", Value: "text", HasValue: true},
					{Name: "runat", Value: "server", HasValue: true},
					{Name: "disabled"},
					{Name: "ID", Value: "_control1", HasValue: true},
				},
				Control: "HtmlInputText", Identity: "_control1",
			},
			{
				Kind: "Tag", Name: "asp:Label", Type: "SERVERCONTROL", SelfClosing: true,
				Attrs:     []AttrRecord{{Name: "ID", Value: "l1", HasValue: true}},
				Component: "System.Web.UI.WebControls.Label", Alias: "asp", TypeName: "Label", Identity: "l1",
			},
			{Kind: "Tag", Name: "%", Type: "INLINECODE", SelfClosing: true, Code: "x++;"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("RecordsOf() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should survive msgpack encoding", func(t *testing.T) {
		els := samplePage(t)
		data, err := MarshalRecords(els)
		require.NoError(t, err)
		got, err := DecodeRecords(bytes.NewReader(data))
		require.NoError(t, err)
		if diff := cmp.Diff(RecordsOf(els), got); diff != "" {
			t.Errorf("DecodeRecords() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject other schema versions", func(t *testing.T) {
		data, err := msgpack.Marshal(recordFile{Schema: recordSchemaVersion + 1})
		require.NoError(t, err)
		_, err = DecodeRecords(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrRecordSchema)
	})

	t.Run("should reject a count mismatch", func(t *testing.T) {
		data, err := msgpack.Marshal(recordFile{Schema: recordSchemaVersion, Count: 3})
		require.NoError(t, err)
		_, err = DecodeRecords(bytes.NewReader(data))
		assert.Error(t, err)
	})
}

func Test_Dump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, samplePage(t), false))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `  0 PlainText     "Hi "`, lines[0])
	assert.Equal(t, `  1 HTMLCONTROL   <input type="text" runat="server" disabled ID="_control1"> HtmlInputText id=_control1`, lines[1])
	assert.Equal(t, `  2 SERVERCONTROL <asp:Label ID="l1" /> System.Web.UI.WebControls.Label alias=asp type=Label id=l1`, lines[2])
	assert.Equal(t, `  3 INLINECODE    <% x++; %>`, lines[3])
}
