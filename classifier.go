package pagetags

import "strings"

// RawTag is a tag as delivered by the tokenizer.
type RawTag struct {
	Name        string
	Attrs       *Attributes
	SelfClosing bool
	Closing     bool // </name>; a leading '/' in Name means the same
	Directive   bool // <%@ name ... %>
	Pos         Position
}

// normalize trims the name and folds a leading '/' into the closing flag.
func (raw RawTag) normalize() (name string, closing bool) {
	name, closing = strings.TrimSpace(raw.Name), raw.Closing
	if !raw.Directive && strings.HasPrefix(name, "/") {
		name, closing = strings.TrimSpace(name[1:]), true
	}
	return name, closing
}

func (RawTag) isToken() {}

// Classifier turns raw tags into classified tag variants. It owns the counter used
// for synthesized control IDs and the resolver used for alias:TypeName tags.
// A Classifier is safe for concurrent use when its Resolver is.
type Classifier struct {
	ids      *IDCounter
	resolver Resolver
	idPrefix string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithIDCounter shares ids with other classifiers. Synthesized IDs are unique
// across every classifier using the same counter.
func WithIDCounter(ids *IDCounter) ClassifierOption {
	return func(c *Classifier) { c.ids = ids }
}

// WithResolver sets the resolver for server components.
func WithResolver(r Resolver) ClassifierOption {
	return func(c *Classifier) { c.resolver = r }
}

// WithIDPrefix replaces DefaultIDPrefix for synthesized IDs.
func WithIDPrefix(prefix string) ClassifierOption {
	return func(c *Classifier) { c.idPrefix = prefix }
}

// NewClassifier returns a classifier with a fresh ID counter and no resolver.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{idPrefix: DefaultIDPrefix}
	for _, o := range opts {
		o(c)
	}
	if c.ids == nil {
		c.ids = &IDCounter{}
	}
	return c
}

// IDs returns the classifier's ID counter.
func (c *Classifier) IDs() *IDCounter { return c.ids }

// Resolver returns the component resolver, nil when none is set.
func (c *Classifier) Resolver() Resolver { return c.resolver }

// withResolver returns a copy of c sharing its counter but resolving through r.
func (c *Classifier) withResolver(r Resolver) *Classifier {
	cp := *c
	cp.resolver = r
	return &cp
}

// Classify decides what raw is and builds the matching variant:
//
//   - a directive block yields *Directive, if the name is recognized;
//   - an alias:TypeName name yields *Component, opening or closing;
//   - any other closing tag yields *CloseTag;
//   - runat="server" yields *HTMLControlTag;
//   - everything else is a *Tag of type TagHTML.
func (c *Classifier) Classify(raw RawTag) (TagElement, error) {
	name, closing := raw.normalize()
	tag, err := NewTag(name, raw.Attrs, raw.SelfClosing && !closing)
	if err != nil {
		return nil, withPos(err, raw.Pos)
	}

	var out TagElement
	switch {
	case raw.Directive:
		if !IsDirectiveName(name) {
			return nil, NewUnknownDirectiveError(raw.Pos, name)
		}
		out, err = NewDirective(name, raw.Attrs)
	case strings.Contains(name, ":"):
		out, err = c.component(tag, closing)
	case closing:
		out, err = NewCloseTag(name)
	case tag.attrs.IsRunAtServer():
		out, err = NewHTMLControlTag(tag, c.ids, c.idPrefix)
	default:
		tag.typ = TagHTML
		out = tag
	}
	if err != nil {
		return nil, withPos(err, raw.Pos)
	}
	return out, nil
}

func (c *Classifier) component(tag *Tag, closing bool) (*Component, error) {
	alias, typeName, ok := SplitComponentName(tag.name)
	if !ok {
		return nil, NewComponentNameError(Position{}, tag.name)
	}
	var (
		ref   TypeRef
		found bool
	)
	if c.resolver != nil {
		ref, found = c.resolver.Resolve(alias, typeName)
	}
	if !found {
		return nil, NewUnknownComponentError(Position{}, alias, typeName)
	}
	var src TagElement = tag
	if closing {
		ct, err := NewCloseTag(tag.name)
		if err != nil {
			return nil, err
		}
		src = ct
	}
	return NewComponent(src, ref)
}

// ClassifyCode wraps an inline code block; expr selects the <%= %> form.
func (c *Classifier) ClassifyCode(code string, expr bool) *InlineCode {
	return NewInlineCode(code, expr)
}
