package pagetags

import "strings"

// ElementKind discriminates the two element variants.
type ElementKind uint8

const (
	// ElementTag is any structured markup element (see TagElement).
	ElementTag ElementKind = iota
	// ElementPlainText is a run of literal page content.
	ElementPlainText
)

func (k ElementKind) String() string {
	switch k {
	case ElementTag:
		return "Tag"
	case ElementPlainText:
		return "PlainText"
	default:
		return "ElementKind(?)"
	}
}

// Element is one item of a classified page. It is either *PlainText or a TagElement.
type Element interface {
	ElementKind() ElementKind
}

// PlainText accumulates literal content between tags.
type PlainText struct {
	text strings.Builder
}

// NewPlainText returns a PlainText holding s.
func NewPlainText(s string) *PlainText {
	p := &PlainText{}
	p.text.WriteString(s)
	return p
}

func (*PlainText) ElementKind() ElementKind { return ElementPlainText }

// Append adds more literal content.
func (p *PlainText) Append(more string) {
	p.text.WriteString(more)
}

// Text returns the content accumulated so far.
func (p *PlainText) Text() string {
	return p.text.String()
}

func (p *PlainText) String() string {
	return "PlainText: " + p.Text()
}
