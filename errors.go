package pagetags

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every classification error. Use errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Position represents a position in the page source, as reported by the tokenizer.
// The zero value means the position is unknown.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// IsValid reports whether the tokenizer supplied a position.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ParseError is the base error type for all classification errors.
type ParseError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s at %s", e.Message, e.Pos)
	}
	return e.Message
}

// Unwrap lets callers test any classification error against ErrInvalidArgument.
func (e *ParseError) Unwrap() error {
	return ErrInvalidArgument
}

func (e *ParseError) at() string {
	if e.Pos.IsValid() {
		return " at " + e.Pos.String()
	}
	return ""
}

// InvalidTagError is returned when a tag has no usable name.
type InvalidTagError struct {
	ParseError
}

// InputTypeError is returned when an INPUT control has a missing or unknown type attribute.
type InputTypeError struct {
	ParseError
	TagName string // Name of the tag as written
	Type    string // Value of the type attribute, empty when absent
}

// Error implements the error interface.
func (e *InputTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("<%s> without type attribute%s", e.TagName, e.at())
	}
	return fmt.Sprintf("<%s> has unknown input type %q%s", e.TagName, e.Type, e.at())
}

// ComponentNameError is returned when a component is built from a name that is not
// of the form alias:TypeName.
type ComponentNameError struct {
	ParseError
	TagName string
}

// Error implements the error interface.
func (e *ComponentNameError) Error() string {
	return fmt.Sprintf("component tag <%s> is not of the form alias:TypeName%s", e.TagName, e.at())
}

// UnknownDirectiveError is returned for a directive block whose name is not recognized.
type UnknownDirectiveError struct {
	ParseError
	Directive string
}

// Error implements the error interface.
func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("unknown directive %q%s", e.Directive, e.at())
}

// UnknownComponentError is returned when no registration resolves alias:TypeName.
type UnknownComponentError struct {
	ParseError
	Alias    string
	TypeName string
}

// Error implements the error interface.
func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("no registered component for <%s:%s>%s", e.Alias, e.TypeName, e.at())
}

// MalformedTagError represents an error when a tag is structurally incomplete,
// such as a server component that is never closed.
type MalformedTagError struct {
	ParseError
	TagName string // Name of the malformed tag
}

// Error implements the error interface.
func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag <%s>%s: %s", e.TagName, e.at(), e.Message)
}

// UnmatchedTagError represents an error when a closing component tag doesn't match
// the innermost open component.
type UnmatchedTagError struct {
	ParseError
	TagName string // Name of the unmatched tag
}

// Error implements the error interface.
func (e *UnmatchedTagError) Error() string {
	return fmt.Sprintf("unmatched closing tag </%s>%s", e.TagName, e.at())
}

// ValidationError represents an error when directive attributes fail validation.
type ValidationError struct {
	ParseError
	Directive string // Name of the directive that failed validation
	Attribute string // Offending attribute, if a single one is to blame
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("validation failed for <%%@ %s %%> attribute %s%s: %s",
			e.Directive, e.Attribute, e.at(), e.Message)
	}
	return fmt.Sprintf("validation failed for <%%@ %s %%>%s: %s", e.Directive, e.at(), e.Message)
}

// NewInvalidTagError creates a new InvalidTagError.
func NewInvalidTagError(pos Position, message string) *InvalidTagError {
	return &InvalidTagError{ParseError: ParseError{Pos: pos, Message: message}}
}

// NewInputTypeError creates a new InputTypeError.
func NewInputTypeError(pos Position, tagName, typ string) *InputTypeError {
	return &InputTypeError{
		ParseError: ParseError{Pos: pos, Message: "bad input type"},
		TagName:    tagName,
		Type:       typ,
	}
}

// NewComponentNameError creates a new ComponentNameError.
func NewComponentNameError(pos Position, tagName string) *ComponentNameError {
	return &ComponentNameError{
		ParseError: ParseError{Pos: pos, Message: "not a namespaced tag"},
		TagName:    tagName,
	}
}

// NewUnknownDirectiveError creates a new UnknownDirectiveError.
func NewUnknownDirectiveError(pos Position, name string) *UnknownDirectiveError {
	return &UnknownDirectiveError{
		ParseError: ParseError{Pos: pos, Message: "unknown directive"},
		Directive:  name,
	}
}

// NewUnknownComponentError creates a new UnknownComponentError.
func NewUnknownComponentError(pos Position, alias, typeName string) *UnknownComponentError {
	return &UnknownComponentError{
		ParseError: ParseError{Pos: pos, Message: "unknown component"},
		Alias:      alias,
		TypeName:   typeName,
	}
}

// NewMalformedTagError creates a new MalformedTagError.
func NewMalformedTagError(pos Position, tagName, message string) *MalformedTagError {
	return &MalformedTagError{
		ParseError: ParseError{Pos: pos, Message: message},
		TagName:    tagName,
	}
}

// NewUnmatchedTagError creates a new UnmatchedTagError.
func NewUnmatchedTagError(pos Position, tagName string) *UnmatchedTagError {
	return &UnmatchedTagError{
		ParseError: ParseError{Pos: pos, Message: "closing tag has no matching opening tag"},
		TagName:    tagName,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(pos Position, directive, attribute, message string) *ValidationError {
	return &ValidationError{
		ParseError: ParseError{Pos: pos, Message: message},
		Directive:  directive,
		Attribute:  attribute,
	}
}

type positioned interface {
	setPos(Position)
}

func (e *ParseError) setPos(pos Position) {
	if !e.Pos.IsValid() {
		e.Pos = pos
	}
}

// withPos stamps pos on err when it is a classification error without a position.
func withPos(err error, pos Position) error {
	var p positioned
	if errors.As(err, &p) {
		p.setPos(pos)
	}
	return err
}
