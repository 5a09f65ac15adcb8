package pagetags

import (
	"strings"
	"sync"
)

// Recognized directive names.
const (
	DirectivePage        = "PAGE"
	DirectiveControl     = "CONTROL"
	DirectiveImport      = "IMPORT"
	DirectiveImplements  = "IMPLEMENTS"
	DirectiveRegister    = "REGISTER"
	DirectiveAssembly    = "ASSEMBLY"
	DirectiveOutputCache = "OUTPUTCACHE"
	DirectiveReference   = "REFERENCE"
)

var directiveNames = sync.OnceValue(func() map[string]struct{} {
	names := map[string]struct{}{}
	for _, n := range []string{
		DirectivePage,
		DirectiveControl,
		DirectiveImport,
		DirectiveImplements,
		DirectiveRegister,
		DirectiveAssembly,
		DirectiveOutputCache,
		DirectiveReference,
	} {
		names[foldName(n)] = struct{}{}
	}
	return names
})

// IsDirectiveName reports whether name is a recognized directive, ignoring case.
// Tokenizers use it to decide whether a <%@ ... %> block is a directive at all.
func IsDirectiveName(name string) bool {
	_, ok := directiveNames()[foldName(strings.TrimSpace(name))]
	return ok
}

// Directive is a <%@ Name attr="..." %> block. Directives are always self-closing
// and their name is stored upper-cased.
type Directive struct {
	Tag
}

// NewDirective returns a directive. It does not check that name is recognized;
// see IsDirectiveName.
func NewDirective(name string, attrs *Attributes) (*Directive, error) {
	base, err := NewTag(strings.ToUpper(name), attrs, true)
	if err != nil {
		return nil, err
	}
	return &Directive{Tag: base.derive(TagDirective)}, nil
}

func (d *Directive) String() string {
	return "Directive: " + d.name
}
