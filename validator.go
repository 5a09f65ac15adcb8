package pagetags

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator is an interface for validating directive attributes.
type Validator interface {
	// Validate checks the attributes of the named directive.
	// Returns nil if valid, or an error if invalid.
	Validate(directive string, attrs *Attributes, pos Position) error
}

// RegexValidator checks one attribute against a regular expression.
// Absent attributes pass; pair it with RequireAttributes when the attribute is mandatory.
type RegexValidator struct {
	Attribute   string
	Pattern     *regexp.Regexp
	Description string // Human-readable description of what the pattern expects
}

// Validate implements the Validator interface.
func (v *RegexValidator) Validate(directive string, attrs *Attributes, pos Position) error {
	value, ok := attrs.Get(v.Attribute)
	if !ok {
		return nil
	}
	if !v.Pattern.MatchString(value) {
		return NewValidationError(
			pos,
			directive,
			v.Attribute,
			fmt.Sprintf("value %q does not match expected pattern: %s", value, v.Description),
		)
	}
	return nil
}

// FuncValidator uses a custom function to validate attributes.
type FuncValidator struct {
	ValidateFunc func(directive string, attrs *Attributes, pos Position) error
}

// Validate implements the Validator interface.
func (v *FuncValidator) Validate(directive string, attrs *Attributes, pos Position) error {
	return v.ValidateFunc(directive, attrs, pos)
}

// RequireAttributes passes when at least one of the alternatives is fully present.
// Each alternative is a list of attribute names that must all carry a value.
type RequireAttributes struct {
	Alternatives [][]string
}

// Validate implements the Validator interface.
func (v *RequireAttributes) Validate(directive string, attrs *Attributes, pos Position) error {
	var wanted []string
	for _, alt := range v.Alternatives {
		all := true
		for _, name := range alt {
			if _, ok := attrs.Get(name); !ok {
				all = false
				break
			}
		}
		if all {
			return nil
		}
		wanted = append(wanted, strings.Join(alt, "+"))
	}
	attr := ""
	if len(v.Alternatives) == 1 && len(v.Alternatives[0]) == 1 {
		attr = v.Alternatives[0][0]
	}
	return NewValidationError(pos, directive, attr, "requires "+strings.Join(wanted, " or "))
}

// ValidatorRegistry manages validators for different directives.
type ValidatorRegistry struct {
	validators map[string][]Validator
}

// NewValidatorRegistry creates a new validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make(map[string][]Validator),
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultValidators returns a registry with the attribute rules of the built-in directives.
func DefaultValidators() *ValidatorRegistry {
	r := NewValidatorRegistry()
	r.Register(DirectiveRegister, &RequireAttributes{Alternatives: [][]string{{"TagPrefix"}}})
	r.Register(DirectiveRegister, &RegexValidator{
		Attribute:   "TagPrefix",
		Pattern:     identifierPattern,
		Description: "an identifier",
	})
	r.Register(DirectiveRegister, &RequireAttributes{Alternatives: [][]string{{"TagName", "Src"}, {"Namespace"}}})
	r.Register(DirectiveImport, &RequireAttributes{Alternatives: [][]string{{"Namespace"}}})
	r.Register(DirectiveImplements, &RequireAttributes{Alternatives: [][]string{{"Interface"}}})
	r.Register(DirectiveAssembly, &RequireAttributes{Alternatives: [][]string{{"Name"}, {"Src"}}})
	r.Register(DirectiveReference, &RequireAttributes{Alternatives: [][]string{{"Page"}, {"Control"}, {"VirtualPath"}}})
	r.Register(DirectiveOutputCache, &RequireAttributes{Alternatives: [][]string{{"Duration"}}})
	r.Register(DirectiveOutputCache, &RegexValidator{
		Attribute:   "Duration",
		Pattern:     regexp.MustCompile(`^[0-9]+$`),
		Description: "a number of seconds",
	})
	return r
}

// Register adds a validator for a directive.
// Multiple validators can be registered for the same directive; they run in order.
func (r *ValidatorRegistry) Register(directive string, validator Validator) {
	if validator == nil {
		return
	}
	directive = canonicalName(directive)
	r.validators[directive] = append(r.validators[directive], validator)
}

// RegisterRegex creates and registers a RegexValidator.
func (r *ValidatorRegistry) RegisterRegex(directive, attribute, pattern, description string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern for directive %s: %w", directive, err)
	}

	r.Register(directive, &RegexValidator{
		Attribute:   attribute,
		Pattern:     re,
		Description: description,
	})
	return nil
}

// RegisterFunc creates and registers a FuncValidator.
func (r *ValidatorRegistry) RegisterFunc(directive string, validateFunc func(string, *Attributes, Position) error) {
	r.Register(directive, &FuncValidator{
		ValidateFunc: validateFunc,
	})
}

// ValidateDirective runs every validator registered for d and returns the first failure.
func (r *ValidatorRegistry) ValidateDirective(d *Directive, pos Position) error {
	if r == nil {
		return nil
	}
	name := canonicalName(d.Name())
	for _, validator := range r.validators[name] {
		if err := validator.Validate(d.Name(), d.Attributes(), pos); err != nil {
			return err
		}
	}
	return nil
}

func canonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
