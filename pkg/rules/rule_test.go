package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRule(t *testing.T, name string, settings map[string]string) *Rule {
	t.Helper()

	rule, err := NewRule(name, settings)
	require.NoError(t, err)

	return rule
}

func TestNewRuleMissingMandatoryFields(t *testing.T) {
	_, err := NewRule("broken", map[string]string{"category": "Groceries"})
	require.Error(t, err)

	var invalid *InvalidRuleError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "broken", invalid.Rule)
	assert.Contains(t, invalid.Reason, "priority")
	assert.Contains(t, invalid.Reason, "condition")
}

func TestNewRuleBadPriority(t *testing.T) {
	_, err := NewRule("broken", map[string]string{
		"priority":  "high",
		"condition": "true",
	})
	require.Error(t, err)

	var invalid *InvalidRuleError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "not an integer")
}

func TestNewRuleBadCondition(t *testing.T) {
	_, err := NewRule("broken", map[string]string{
		"priority":  "1",
		"condition": "amount <",
	})
	require.Error(t, err)

	var invalid *InvalidRuleError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "does not compile")
}

func TestRuleApplySetsAssignmentsOnMatch(t *testing.T) {
	rule := mustRule(t, "bakery", map[string]string{
		"priority":  "10",
		"condition": `description contains "BOULANGERIE"`,
		"category":  "Groceries",
		"notes":     "card payment",
	})

	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	category, err := container.Get("category")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", category)

	notes, err := container.Get("notes")
	require.NoError(t, err)
	assert.Equal(t, "card payment", notes)

	assert.NotContains(t, container.DefaultInitialisedKeys(), "category")
}

func TestRuleApplyNonMatchLeavesContainerUntouched(t *testing.T) {
	rule := mustRule(t, "rent", map[string]string{
		"priority":  "10",
		"condition": `description contains "LOYER"`,
		"category":  "Housing",
	})

	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	assert.False(t, container.Has("category"))
	assert.Contains(t, container.DefaultInitialisedKeys(), "description")
}

func TestRuleApplyCanReadNonExportedFields(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":  "10",
		"condition": `operation_type == "PAIEMENT PAR CARTE"`,
		"tags":      "card",
	})

	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	tags, err := container.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, "card", tags)
}

func TestRuleApplyResolvesTemplates(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":    "10",
		"condition":   "true",
		"description": "{operation_type}: {description}",
	})

	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	description, err := container.Get("description")
	require.NoError(t, err)
	assert.Equal(t, "PAIEMENT PAR CARTE: PAIEMENT CB BOULANGERIE", description)
}

func TestRuleApplyUnresolvedTemplateField(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":  "10",
		"condition": "true",
		"notes":     "paid via {payment_channel}",
	})

	container := newTestContainer()
	err := rule.Apply(container)
	require.Error(t, err)

	var unresolved *UnresolvedTemplateError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "payment_channel", unresolved.Field)
}

func TestRuleApplyAppendsTags(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":  "10",
		"condition": "true",
		"tags":      "card",
	})

	container := newTestContainer()
	container.Set("tags", "reviewed")

	require.NoError(t, rule.Apply(container))

	tags, err := container.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, "reviewed,card", tags)
}

func TestRuleApplyTagsOnEmptyPreviousValue(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":  "10",
		"condition": "true",
		"tags":      "card",
	})

	// The seeded empty tags value does not produce a leading comma.
	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	tags, err := container.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, "card", tags)
}

func TestRuleConditionOnUndefinedVariable(t *testing.T) {
	rule := mustRule(t, "card", map[string]string{
		"priority":  "10",
		"condition": `category == "Groceries"`,
		"tags":      "food",
	})

	// An undefined variable compares as nil rather than failing the rule.
	container := newTestContainer()
	require.NoError(t, rule.Apply(container))

	tags, err := container.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, "", tags)
}
