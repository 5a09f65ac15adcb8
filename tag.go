package pagetags

import (
	"fmt"
	"strings"
)

// TagType classifies a tag.
type TagType uint8

const (
	// TagNotYet is the type of a tag that has not been classified.
	TagNotYet TagType = iota
	// TagDirective is a <%@ Name ... %> block.
	TagDirective
	// TagHTML is literal HTML passed through to the output.
	TagHTML
	// TagHTMLControl is an HTML element marked runat="server".
	TagHTMLControl
	// TagServerControl is an alias:TypeName component.
	TagServerControl
	// TagInlineVar is a <%= expr %> block.
	TagInlineVar
	// TagInlineCode is a <% code %> block.
	TagInlineCode
	// TagClosing is a </name> tag.
	TagClosing
)

var tagTypeNames = [...]string{
	TagNotYet:        "NOTYET",
	TagDirective:     "DIRECTIVE",
	TagHTML:          "HTML",
	TagHTMLControl:   "HTMLCONTROL",
	TagServerControl: "SERVERCONTROL",
	TagInlineVar:     "INLINEVAR",
	TagInlineCode:    "INLINECODE",
	TagClosing:       "CLOSING",
}

func (t TagType) String() string {
	if int(t) < len(tagTypeNames) {
		return tagTypeNames[t]
	}
	return fmt.Sprintf("TagType(%d)", uint8(t))
}

// TagElement is implemented by every tag variant: *Tag, *CloseTag, *Directive,
// *HTMLControlTag, *Component and *InlineCode.
type TagElement interface {
	Element
	Name() string
	Type() TagType
	Attributes() *Attributes
	SelfClosing() bool
	PlainMarkup() string
}

// Tag is a structured markup element. The specialized variants embed it.
type Tag struct {
	name        string
	attrs       *Attributes
	selfClosing bool
	typ         TagType
}

// NewTag returns an unclassified tag. The name is trimmed and must not be empty.
// The tag keeps its own copy of attrs.
func NewTag(name string, attrs *Attributes, selfClosing bool) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidTagError(Position{}, "tag name is empty")
	}
	return &Tag{
		name:        name,
		attrs:       attrs.Clone(),
		selfClosing: selfClosing,
		typ:         TagNotYet,
	}, nil
}

// derive copies name, attributes and self-closing state and sets a new type.
func (t *Tag) derive(typ TagType) Tag {
	return Tag{
		name:        t.name,
		attrs:       t.attrs.Clone(),
		selfClosing: t.selfClosing,
		typ:         typ,
	}
}

func (*Tag) ElementKind() ElementKind { return ElementTag }

// Name returns the tag name as written.
func (t *Tag) Name() string { return t.name }

// Type returns the tag classification.
func (t *Tag) Type() TagType { return t.typ }

// Attributes returns the tag attributes, nil when there are none.
func (t *Tag) Attributes() *Attributes { return t.attrs }

// SelfClosing reports whether the tag was written as <name ... />.
func (t *Tag) SelfClosing() bool { return t.selfClosing }

// Is reports whether the tag name equals name, ignoring case.
func (t *Tag) Is(name string) bool {
	return foldName(t.name) == foldName(name)
}

// PlainMarkup reconstructs a literal form of the tag. Original whitespace and quoting
// are not preserved.
func (t *Tag) PlainMarkup() string {
	return plainMarkup(t.name, t.attrs, t.typ == TagClosing, t.selfClosing)
}

func plainMarkup(name string, attrs *Attributes, closing, selfClosing bool) string {
	var sb strings.Builder
	sb.WriteByte('<')
	if closing {
		sb.WriteByte('/')
	}
	sb.WriteString(name)
	attrs.Each(func(key, value string, hasValue bool) {
		sb.WriteByte(' ')
		sb.WriteString(key)
		if hasValue {
			sb.WriteString(`="`)
			sb.WriteString(value)
			sb.WriteByte('"')
		}
	})
	if selfClosing {
		sb.WriteString(" /")
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t *Tag) String() string {
	return fmt.Sprintf("%s %s %t", t.name, t.attrs, t.selfClosing)
}

// CloseTag is a </name> tag. It never carries attributes and is never self-closing.
type CloseTag struct {
	Tag
}

// NewCloseTag returns a closing tag for name.
func NewCloseTag(name string) (*CloseTag, error) {
	base, err := NewTag(name, nil, false)
	if err != nil {
		return nil, err
	}
	base.typ = TagClosing
	return &CloseTag{Tag: *base}, nil
}

func (c *CloseTag) String() string {
	return "CloseTag: " + c.name
}
