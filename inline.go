package pagetags

// InlineCode is a <% code %> block, or a <%= expr %> block when it renders a value.
type InlineCode struct {
	Tag
	code string
}

const (
	inlineCodeName = "%"
	inlineVarName  = "%="
)

// NewInlineCode wraps a code block. expr selects the <%= %> form.
func NewInlineCode(code string, expr bool) *InlineCode {
	t := Tag{name: inlineCodeName, selfClosing: true, typ: TagInlineCode}
	if expr {
		t.name, t.typ = inlineVarName, TagInlineVar
	}
	return &InlineCode{Tag: t, code: code}
}

// Code returns the block body as written between the delimiters.
func (c *InlineCode) Code() string { return c.code }

// IsExpression reports whether the block is the <%= %> form.
func (c *InlineCode) IsExpression() bool { return c.typ == TagInlineVar }

// PlainMarkup reconstructs the block with single spaces inside the delimiters.
func (c *InlineCode) PlainMarkup() string {
	return "<" + c.name + " " + c.code + " %>"
}

func (c *InlineCode) String() string {
	return c.typ.String() + ": " + c.code
}
