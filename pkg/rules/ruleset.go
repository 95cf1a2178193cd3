package rules

import (
	"fmt"
	"sort"

	"gopkg.in/ini.v1"
)

// RuleSet is an ordered collection of rules, sorted ascending by priority at
// load time. The same set is reused for every transaction of a run.
type RuleSet struct {
	path  string
	rules []*Rule
}

// Load parses the rule file at path and builds the sorted rule set. Priority
// ties keep their file order.
func Load(path string) (*RuleSet, error) {
	source, err := ini.LoadSources(ini.LoadOptions{KeyValueDelimiters: ":"}, path)
	if err != nil {
		return nil, &RuleSetLoadError{Path: path, Err: err}
	}

	ruleSet := []*Rule{}

	for _, section := range source.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		rule, err := NewRule(section.Name(), section.KeysHash())
		if err != nil {
			return nil, &RuleSetLoadError{Path: path, Err: err}
		}

		rule.assignmentOrder = assignmentOrder(section.KeyStrings())

		ruleSet = append(ruleSet, rule)
	}

	rs := NewRuleSet(ruleSet...)
	rs.path = path

	return rs, nil
}

// assignmentOrder keeps the section's key declaration order, minus the
// non-assignment keys.
func assignmentOrder(keys []string) []string {
	order := make([]string, 0, len(keys))

	for _, key := range keys {
		if key == "priority" || key == "condition" {
			continue
		}

		order = append(order, key)
	}

	return order
}

// NewRuleSet builds a set from already-constructed rules, sorting them by
// ascending priority with a stable sort.
func NewRuleSet(ruleSet ...*Rule) *RuleSet {
	rules := make([]*Rule, len(ruleSet))
	copy(rules, ruleSet)

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].priority < rules[j].priority
	})

	return &RuleSet{rules: rules}
}

// Apply runs every rule in priority order against the container and returns
// the container for chaining. Rules are evaluated against the current,
// possibly already-mutated state: a rule may depend on fields set by a
// lower-priority rule applied before it.
func (rs *RuleSet) Apply(information *InformationContainer) (*InformationContainer, error) {
	for _, rule := range rs.rules {
		if err := rule.Apply(information); err != nil {
			return nil, fmt.Errorf("applying rule %q: %w", rule.name, err)
		}
	}

	return information, nil
}

func (rs *RuleSet) Path() string {
	return rs.path
}

func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
