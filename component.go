package pagetags

import (
	"fmt"
	"strings"
)

// TypeRef is an opaque handle to a concrete control type. It is supplied by a
// Resolver and never interpreted by this package.
type TypeRef string

// Component is an alias:TypeName server control tag bound to a resolved type.
type Component struct {
	Tag
	typ      TypeRef
	alias    string
	typeName string
	closing  bool
}

// SplitComponentName splits alias:TypeName. ok is false unless name holds exactly
// one colon with text on both sides.
func SplitComponentName(name string) (alias, typeName string, ok bool) {
	alias, typeName, found := strings.Cut(name, ":")
	if !found || alias == "" || typeName == "" || strings.Contains(typeName, ":") {
		return "", "", false
	}
	return alias, typeName, true
}

// NewComponent specializes an already classified tag into a server component of
// type typ. A *CloseTag input yields a closing component, so it can be matched to
// its opener without splitting the name again.
func NewComponent(tag TagElement, typ TypeRef) (*Component, error) {
	alias, typeName, ok := SplitComponentName(tag.Name())
	if !ok {
		return nil, NewComponentNameError(Position{}, tag.Name())
	}
	_, closing := tag.(*CloseTag)
	return &Component{
		Tag: Tag{
			name:        tag.Name(),
			attrs:       tag.Attributes().Clone(),
			selfClosing: tag.SelfClosing(),
			typ:         TagServerControl,
		},
		typ:      typ,
		alias:    alias,
		typeName: typeName,
		closing:  closing,
	}, nil
}

// MustComponent is like NewComponent but panics when the name is not namespaced.
func MustComponent(tag TagElement, typ TypeRef) *Component {
	c, err := NewComponent(tag, typ)
	if err != nil {
		panic(err)
	}
	return c
}

// ComponentType returns the resolved type.
func (c *Component) ComponentType() TypeRef { return c.typ }

// Alias returns the namespace prefix before the colon.
func (c *Component) Alias() string { return c.alias }

// TypeName returns the type name after the colon.
func (c *Component) TypeName() string { return c.typeName }

// Identity returns the ID attribute as written. Components never get a synthesized ID.
func (c *Component) Identity() string { return c.attrs.Value("ID") }

// IsCloseTag reports whether the component was built from a closing tag.
func (c *Component) IsCloseTag() bool { return c.closing }

// Matches reports whether closing closes c.
func (c *Component) Matches(closing *Component) bool {
	return closing.closing && !c.closing && c.Is(closing.name)
}

// PlainMarkup reconstructs the tag, as </alias:TypeName> for a closing component.
func (c *Component) PlainMarkup() string {
	return plainMarkup(c.name, c.attrs, c.closing, c.selfClosing)
}

func (c *Component) String() string {
	return fmt.Sprintf("%s Alias: %s ID: %s", c.typ, c.alias, c.Identity())
}
