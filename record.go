package pagetags

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// recordSchemaVersion changes whenever Record changes shape.
const recordSchemaVersion uint16 = 1

// Record is a flat, serializable view of an Element for handing a classified page
// to an out-of-process compiler or for golden tests.
type Record struct {
	Kind        string       `msgpack:"kind"`
	Text        string       `msgpack:"text,omitempty"`
	Name        string       `msgpack:"name,omitempty"`
	Type        string       `msgpack:"type,omitempty"`
	Attrs       []AttrRecord `msgpack:"attrs,omitempty"`
	SelfClosing bool         `msgpack:"self_closing,omitempty"`
	Control     string       `msgpack:"control,omitempty"`
	Identity    string       `msgpack:"id,omitempty"`
	Component   string       `msgpack:"component,omitempty"`
	Alias       string       `msgpack:"alias,omitempty"`
	TypeName    string       `msgpack:"type_name,omitempty"`
	CloseTag    bool         `msgpack:"close_tag,omitempty"`
	Code        string       `msgpack:"code,omitempty"`
}

// AttrRecord is one attribute. Bare attributes have HasValue false.
type AttrRecord struct {
	Name     string `msgpack:"n"`
	Value    string `msgpack:"v,omitempty"`
	HasValue bool   `msgpack:"h,omitempty"`
}

type recordFile struct {
	Schema  uint16   `msgpack:"schema"`
	Count   uint32   `msgpack:"count"`
	Records []Record `msgpack:"records"`
}

// RecordOf flattens el.
func RecordOf(el Element) Record {
	if pt, ok := el.(*PlainText); ok {
		return Record{Kind: ElementPlainText.String(), Text: pt.Text()}
	}
	t, ok := el.(TagElement)
	if !ok {
		return Record{Kind: fmt.Sprintf("%T", el)}
	}
	r := Record{
		Kind:        ElementTag.String(),
		Name:        t.Name(),
		Type:        t.Type().String(),
		SelfClosing: t.SelfClosing(),
	}
	t.Attributes().Each(func(name, value string, hasValue bool) {
		r.Attrs = append(r.Attrs, AttrRecord{Name: name, Value: value, HasValue: hasValue})
	})
	switch v := t.(type) {
	case *HTMLControlTag:
		r.Control = v.ControlKind().String()
		r.Identity = v.Identity()
	case *Component:
		r.Component = string(v.ComponentType())
		r.Alias = v.Alias()
		r.TypeName = v.TypeName()
		r.Identity = v.Identity()
		r.CloseTag = v.IsCloseTag()
	case *InlineCode:
		r.Code = v.Code()
	}
	return r
}

// RecordsOf flattens every element.
func RecordsOf(els []Element) []Record {
	out := make([]Record, 0, len(els))
	for _, el := range els {
		out = append(out, RecordOf(el))
	}
	return out
}

// EncodeRecords writes the records of els to w as msgpack.
func EncodeRecords(w io.Writer, els []Element) error {
	count, err := safecast.Conv[uint32](len(els))
	if err != nil {
		return fmt.Errorf("too many elements: %w", err)
	}
	return msgpack.NewEncoder(w).Encode(recordFile{
		Schema:  recordSchemaVersion,
		Count:   count,
		Records: RecordsOf(els),
	})
}

// ErrRecordSchema is returned by DecodeRecords for data written by another schema version.
var ErrRecordSchema = errors.New("unsupported record schema")

// DecodeRecords reads records written by EncodeRecords.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var f recordFile
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	if f.Schema != recordSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrRecordSchema, f.Schema)
	}
	if int(f.Count) != len(f.Records) {
		return nil, fmt.Errorf("record count %d does not match header %d", len(f.Records), f.Count)
	}
	return f.Records, nil
}

// MarshalRecords is EncodeRecords into a byte slice.
func MarshalRecords(els []Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, els); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
