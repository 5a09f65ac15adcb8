package pagetags

import (
	"fmt"
	"sync"
)

// Resolver maps alias:TypeName to a concrete control type.
type Resolver interface {
	Resolve(alias, typeName string) (TypeRef, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(alias, typeName string) (TypeRef, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(alias, typeName string) (TypeRef, bool) { return f(alias, typeName) }

type namespaceEntry struct {
	namespace string
	assembly  string
}

// Registry is a Resolver fed by Register directives. Two forms are supported:
//
//	<%@ Register TagPrefix="uc1" TagName="Greeting" Src="~/Greeting.ascx" %>
//	<%@ Register TagPrefix="acme" Namespace="Acme.Web" Assembly="Acme" %>
//
// A user control resolves to its Src. A namespace registration resolves any type
// name under the prefix to "Namespace.TypeName" or "Namespace.TypeName, Assembly".
// Lookups ignore case. Registry is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	userControls map[string]TypeRef
	namespaces   map[string][]namespaceEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		userControls: map[string]TypeRef{},
		namespaces:   map[string][]namespaceEntry{},
	}
}

func componentKey(alias, typeName string) string {
	return foldName(alias) + ":" + foldName(typeName)
}

// RegisterUserControl binds prefix:name to the control at src.
func (r *Registry) RegisterUserControl(prefix, name, src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userControls[componentKey(prefix, name)] = TypeRef(src)
}

// RegisterNamespace makes every type in namespace available under prefix.
// Earlier registrations of the same prefix win.
func (r *Registry) RegisterNamespace(prefix, namespace, assembly string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := foldName(prefix)
	r.namespaces[key] = append(r.namespaces[key], namespaceEntry{namespace: namespace, assembly: assembly})
}

// RegisterDirective records a Register directive. Directives of other kinds are ignored.
func (r *Registry) RegisterDirective(d *Directive) error {
	if !d.Is(DirectiveRegister) {
		return nil
	}
	attrs := d.Attributes()
	prefix, ok := attrs.Get("TagPrefix")
	if !ok || prefix == "" {
		return NewValidationError(Position{}, d.Name(), "TagPrefix", "missing tag prefix")
	}
	if name, ok := attrs.Get("TagName"); ok {
		src, ok := attrs.Get("Src")
		if !ok || src == "" {
			return NewValidationError(Position{}, d.Name(), "Src", fmt.Sprintf("user control %s:%s has no source", prefix, name))
		}
		r.RegisterUserControl(prefix, name, src)
		return nil
	}
	ns, ok := attrs.Get("Namespace")
	if !ok || ns == "" {
		return NewValidationError(Position{}, d.Name(), "", "needs TagName and Src, or Namespace")
	}
	r.RegisterNamespace(prefix, ns, attrs.Value("Assembly"))
	return nil
}

// Resolve implements Resolver. User controls take precedence over namespaces.
func (r *Registry) Resolve(alias, typeName string) (TypeRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref, ok := r.userControls[componentKey(alias, typeName)]; ok {
		return ref, true
	}
	entries := r.namespaces[foldName(alias)]
	if len(entries) == 0 {
		return "", false
	}
	e := entries[0]
	ref := e.namespace + "." + typeName
	if e.assembly != "" {
		ref += ", " + e.assembly
	}
	return TypeRef(ref), true
}

// ResolverChain tries each resolver in order. Nil entries are skipped.
type ResolverChain []Resolver

// Resolve implements Resolver.
func (rc ResolverChain) Resolve(alias, typeName string) (TypeRef, bool) {
	for _, r := range rc {
		if r == nil {
			continue
		}
		if ref, ok := r.Resolve(alias, typeName); ok {
			return ref, true
		}
	}
	return "", false
}
