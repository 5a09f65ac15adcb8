package pagetags

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ControlKind identifies the control an HTML-control tag binds to.
type ControlKind uint8

const (
	// ControlUnknown is the zero value and is never produced by classification.
	ControlUnknown ControlKind = iota
	// ControlGeneric binds any element without a dedicated control.
	ControlGeneric
	ControlAnchor
	ControlButton
	ControlForm
	ControlImage
	ControlSelect
	ControlTable
	ControlTableCell
	ControlTableRow
	ControlTextArea
	// ControlInputButton covers type=button, submit and reset.
	ControlInputButton
	ControlInputCheckBox
	ControlInputFile
	ControlInputHidden
	ControlInputImage
	ControlInputRadioButton
	// ControlInputText covers type=text and password.
	ControlInputText
)

var controlKindNames = [...]string{
	ControlUnknown:          "Unknown",
	ControlGeneric:          "HtmlGenericControl",
	ControlAnchor:           "HtmlAnchor",
	ControlButton:           "HtmlButton",
	ControlForm:             "HtmlForm",
	ControlImage:            "HtmlImage",
	ControlSelect:           "HtmlSelect",
	ControlTable:            "HtmlTable",
	ControlTableCell:        "HtmlTableCell",
	ControlTableRow:         "HtmlTableRow",
	ControlTextArea:         "HtmlTextArea",
	ControlInputButton:      "HtmlInputButton",
	ControlInputCheckBox:    "HtmlInputCheckBox",
	ControlInputFile:        "HtmlInputFile",
	ControlInputHidden:      "HtmlInputHidden",
	ControlInputImage:       "HtmlInputImage",
	ControlInputRadioButton: "HtmlInputRadioButton",
	ControlInputText:        "HtmlInputText",
}

func (k ControlKind) String() string {
	if int(k) < len(controlKindNames) {
		return controlKindNames[k]
	}
	return fmt.Sprintf("ControlKind(%d)", uint8(k))
}

// controlInput marks the INPUT element, whose kind depends on its type attribute.
const controlInput ControlKind = 0xff

type controlTables struct {
	byTag   map[string]ControlKind
	byInput map[string]ControlKind
}

var htmlControls = sync.OnceValue(func() controlTables {
	t := controlTables{byTag: map[string]ControlKind{}, byInput: map[string]ControlKind{}}
	for name, kind := range map[string]ControlKind{
		"A":        ControlAnchor,
		"BUTTON":   ControlButton,
		"FORM":     ControlForm,
		"IMAGE":    ControlImage,
		"IMG":      ControlImage,
		"INPUT":    controlInput,
		"SELECT":   ControlSelect,
		"TABLE":    ControlTable,
		"TD":       ControlTableCell,
		"TH":       ControlTableCell,
		"TR":       ControlTableRow,
		"TEXTAREA": ControlTextArea,
	} {
		t.byTag[foldName(name)] = kind
	}
	for typ, kind := range map[string]ControlKind{
		"BUTTON":   ControlInputButton,
		"SUBMIT":   ControlInputButton,
		"RESET":    ControlInputButton,
		"CHECKBOX": ControlInputCheckBox,
		"FILE":     ControlInputFile,
		"HIDDEN":   ControlInputHidden,
		"IMAGE":    ControlInputImage,
		"RADIO":    ControlInputRadioButton,
		"TEXT":     ControlInputText,
		"PASSWORD": ControlInputText,
	} {
		t.byInput[foldName(typ)] = kind
	}
	return t
})

// ResolveControlKind maps a tag name and its attributes to a control kind.
// Names without a dedicated control resolve to ControlGeneric. INPUT requires a
// recognized type attribute.
func ResolveControlKind(name string, attrs *Attributes) (ControlKind, error) {
	tables := htmlControls()
	kind, ok := tables.byTag[foldName(name)]
	if !ok {
		return ControlGeneric, nil
	}
	if kind != controlInput {
		return kind, nil
	}
	typ, ok := attrs.Get("type")
	if !ok {
		return ControlUnknown, NewInputTypeError(Position{}, name, "")
	}
	kind, ok = tables.byInput[foldName(typ)]
	if !ok {
		return ControlUnknown, NewInputTypeError(Position{}, name, typ)
	}
	return kind, nil
}

// DefaultIDPrefix prefixes synthesized control IDs.
const DefaultIDPrefix = "_control"

// IDCounter hands out the numbers used in synthesized control IDs. The zero value
// starts at 1. It is safe for concurrent use; share one counter across every page
// that must have distinct IDs.
type IDCounter struct {
	last atomic.Uint64
}

// NewIDCounter returns a counter whose first number is start.
func NewIDCounter(start uint64) *IDCounter {
	c := &IDCounter{}
	if start > 0 {
		c.last.Store(start - 1)
	}
	return c
}

// Next returns the current number and advances the counter.
func (c *IDCounter) Next() uint64 {
	return c.last.Add(1)
}

// Peek returns the number the next call to Next will return.
func (c *IDCounter) Peek() uint64 {
	return c.last.Load() + 1
}

// HTMLControlTag is an HTML element bound to a server-side HTML control.
type HTMLControlTag struct {
	Tag
	kind ControlKind
}

// NewHTMLControlTag specializes tag into an HTML control. When tag has no ID
// attribute one is synthesized as prefix followed by the next counter value.
// The counter advances once per successful construction whether or not an ID
// was synthesized. An empty prefix means DefaultIDPrefix.
func NewHTMLControlTag(tag *Tag, ids *IDCounter, prefix string) (*HTMLControlTag, error) {
	kind, err := ResolveControlKind(tag.name, tag.attrs)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	h := &HTMLControlTag{Tag: tag.derive(TagHTMLControl), kind: kind}
	n := ids.Next()
	if _, ok := h.attrs.Get("ID"); !ok {
		if h.attrs == nil {
			h.attrs = NewAttributes()
		}
		h.attrs.Set("ID", prefix+strconv.FormatUint(n, 10))
	}
	return h, nil
}

// ControlKind returns the resolved control kind.
func (h *HTMLControlTag) ControlKind() ControlKind { return h.kind }

// Identity returns the ID attribute, original or synthesized.
func (h *HTMLControlTag) Identity() string { return h.attrs.Value("ID") }

func (h *HTMLControlTag) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HtmlControlTag: %s Name: %s Type: %s\n\tAttributes:\n", h.name, h.Identity(), h.kind)
	h.attrs.Each(func(name, value string, _ bool) {
		fmt.Fprintf(&sb, "\t%s=%s", name, value)
	})
	return sb.String()
}
