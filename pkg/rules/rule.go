package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var templateFieldRegexp = regexp.MustCompile(`\{([^{}]+)\}`)

// Rule is one classification rule: a priority, a condition compiled from the
// rule file, and a set of field assignments applied when the condition
// matches. Immutable after construction.
type Rule struct {
	name         string
	priority     int
	condition    *vm.Program
	conditionSrc string
	assignments  map[string]string
	// assignmentOrder fixes the order assignments are written in. Rules
	// loaded from a file keep their declaration order; rules built directly
	// from a map fall back to sorted key order.
	assignmentOrder []string
}

// NewRule builds a rule from an INI section's key/value pairs. Priority and
// condition are mandatory; everything else is kept as an assignment.
func NewRule(name string, settings map[string]string) (*Rule, error) {
	missing := []string{}

	for _, mandatory := range []string{"priority", "condition"} {
		if _, ok := settings[mandatory]; !ok {
			missing = append(missing, mandatory)
		}
	}

	if len(missing) > 0 {
		return nil, &InvalidRuleError{
			Rule:   name,
			Reason: fmt.Sprintf("missing the mandatory field(s) %s", strings.Join(missing, " and ")),
		}
	}

	priority, err := strconv.Atoi(strings.TrimSpace(settings["priority"]))
	if err != nil {
		return nil, &InvalidRuleError{
			Rule:   name,
			Reason: fmt.Sprintf("priority %q is not an integer", settings["priority"]),
		}
	}

	conditionSrc := settings["condition"]

	condition, err := expr.Compile(conditionSrc, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, &InvalidRuleError{
			Rule:   name,
			Reason: fmt.Sprintf("condition %q does not compile: %v", conditionSrc, err),
		}
	}

	assignments := make(map[string]string)

	for key, value := range settings {
		if key == "priority" || key == "condition" {
			continue
		}

		assignments[key] = value
	}

	order := make([]string, 0, len(assignments))
	for key := range assignments {
		order = append(order, key)
	}

	sort.Strings(order)

	return &Rule{
		name:            name,
		priority:        priority,
		condition:       condition,
		conditionSrc:    conditionSrc,
		assignments:     assignments,
		assignmentOrder: order,
	}, nil
}

func (r *Rule) Name() string {
	return r.name
}

func (r *Rule) Priority() int {
	return r.priority
}

// Apply evaluates the rule condition against the container and, on a match,
// resolves and writes every assignment in declaration order. Templates are
// resolved against the container state at assignment time, so a value may
// reference fields written by earlier rules or by an earlier assignment of the
// same rule. A non-match leaves the container untouched.
func (r *Rule) Apply(information *InformationContainer) error {
	matched, err := r.matches(information)
	if err != nil {
		return err
	}

	if !matched {
		return nil
	}

	for _, key := range r.assignmentOrder {
		value, err := resolveTemplate(r.assignments[key], information.Snapshot())
		if err != nil {
			return err
		}

		if key == "tags" && information.Has(key) {
			// Tags accumulate instead of replacing the previous value.
			existing, _ := information.Get(key)
			if previous, ok := existing.(string); ok && previous != "" {
				value = previous + "," + value
			}
		}

		information.Set(key, value)
	}

	return nil
}

func (r *Rule) matches(information *InformationContainer) (bool, error) {
	result, err := expr.Run(r.condition, information.Snapshot())
	if err != nil {
		return false, fmt.Errorf("rule %q: failed to evaluate condition %q: %w", r.name, r.conditionSrc, err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("rule %q: condition %q did not return a boolean", r.name, r.conditionSrc)
	}

	return matched, nil
}

// resolveTemplate substitutes every '{field}' placeholder with the value of
// that field in data.
func resolveTemplate(template string, data map[string]interface{}) (string, error) {
	var unresolved *UnresolvedTemplateError

	resolved := templateFieldRegexp.ReplaceAllStringFunc(template, func(placeholder string) string {
		field := placeholder[1 : len(placeholder)-1]

		value, ok := data[field]
		if !ok {
			if unresolved == nil {
				unresolved = &UnresolvedTemplateError{Field: field, Template: template}
			}

			return placeholder
		}

		return fmt.Sprintf("%v", value)
	})

	if unresolved != nil {
		return "", unresolved
	}

	return resolved, nil
}
