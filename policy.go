package pagetags

import (
	"fmt"
	"strings"
)

// UnknownComponentPolicy decides what happens to alias:TypeName tags nothing resolves.
type UnknownComponentPolicy int

const (
	UnknownFail    UnknownComponentPolicy = iota // strict: return UnknownComponentError
	UnknownDrop                                  // leave the tag out of the output
	UnknownLiteral                               // pass it through as plain HTML
)

var unknownPolicyNames = map[UnknownComponentPolicy]string{
	UnknownFail:    "fail",
	UnknownDrop:    "drop",
	UnknownLiteral: "literal",
}

func (p UnknownComponentPolicy) String() string {
	if s, ok := unknownPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("UnknownComponentPolicy(%d)", int(p))
}

// ParseUnknownComponentPolicy accepts "fail", "drop" or "literal". Empty means fail.
func ParseUnknownComponentPolicy(s string) (UnknownComponentPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnknownFail, nil
	}
	for p, name := range unknownPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return UnknownFail, fmt.Errorf("unknown component policy %q", s)
}

type Engine struct {
	classifier *Classifier
	registry   *Registry
	validators *ValidatorRegistry
	policy     UnknownComponentPolicy
	copts      []ClassifierOption
}
