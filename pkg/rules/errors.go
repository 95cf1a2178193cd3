package rules

import "fmt"

// KeyNotFoundError is returned when a container field is set in neither the
// exported nor the non-exported layer.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in the extracted information", e.Key)
}

// UnresolvedTemplateError is returned when an assignment template references a
// field that is absent from the container at evaluation time. This is treated
// as a configuration bug and aborts the batch.
type UnresolvedTemplateError struct {
	Field    string
	Template string
}

func (e *UnresolvedTemplateError) Error() string {
	return fmt.Sprintf("could not find the key %q referenced by template %q", e.Field, e.Template)
}

// InvalidRuleError is returned when a rule block is missing a mandatory field
// or its condition does not compile.
type InvalidRuleError struct {
	Rule   string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule %q is invalid: %s", e.Rule, e.Reason)
}

// RuleSetLoadError is returned when the rule source cannot be read or one of
// its blocks is malformed.
type RuleSetLoadError struct {
	Path string
	Err  error
}

func (e *RuleSetLoadError) Error() string {
	return fmt.Sprintf("cannot load rules from %q: %v", e.Path, e.Err)
}

func (e *RuleSetLoadError) Unwrap() error {
	return e.Err
}
