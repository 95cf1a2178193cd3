package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer() *InformationContainer {
	return NewInformationContainer(
		map[string]interface{}{
			"description": "PAIEMENT CB BOULANGERIE",
			"amount":      -12.5,
			"tags":        "",
		},
		map[string]interface{}{
			"operation_type": "PAIEMENT PAR CARTE",
		},
	)
}

func TestContainerGetPrefersExportedLayer(t *testing.T) {
	container := NewInformationContainer(
		map[string]interface{}{"description": "exported"},
		map[string]interface{}{"description": "hidden", "operation_type": "VIREMENT"},
	)

	value, err := container.Get("description")
	require.NoError(t, err)
	assert.Equal(t, "exported", value)

	value, err = container.Get("operation_type")
	require.NoError(t, err)
	assert.Equal(t, "VIREMENT", value)
}

func TestContainerGetMissingKey(t *testing.T) {
	container := newTestContainer()

	_, err := container.Get("category")
	require.Error(t, err)

	var notFound *KeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Key)

	assert.False(t, container.Has("category"))
	assert.True(t, container.Has("operation_type"))
}

func TestContainerSetClearsDefaultFlag(t *testing.T) {
	container := newTestContainer()

	defaults := container.DefaultInitialisedKeys()
	assert.Contains(t, defaults, "description")
	assert.Contains(t, defaults, "tags")

	container.Set("tags", "food")

	defaults = container.DefaultInitialisedKeys()
	assert.NotContains(t, defaults, "tags")
	assert.Contains(t, defaults, "description")
}

func TestContainerDelete(t *testing.T) {
	container := newTestContainer()

	container.Delete("tags")

	assert.False(t, container.Has("tags"))
	assert.NotContains(t, container.DefaultInitialisedKeys(), "tags")
}

func TestContainerRenameKeepsDefaultFlag(t *testing.T) {
	container := newTestContainer()

	err := container.Rename("description", "notes")
	require.NoError(t, err)

	assert.False(t, container.Has("description"))

	value, err := container.Get("notes")
	require.NoError(t, err)
	assert.Equal(t, "PAIEMENT CB BOULANGERIE", value)

	defaults := container.DefaultInitialisedKeys()
	assert.Contains(t, defaults, "notes")
	assert.NotContains(t, defaults, "description")
}

func TestContainerRenameOfSetValueDoesNotResurrectDefault(t *testing.T) {
	container := newTestContainer()

	container.Set("category", "Groceries")
	require.NoError(t, container.Rename("category", "category_name"))

	assert.NotContains(t, container.DefaultInitialisedKeys(), "category_name")
}

func TestContainerRenameMissingKey(t *testing.T) {
	container := newTestContainer()

	err := container.Rename("category", "category_name")
	require.Error(t, err)

	var notFound *KeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Key)
}

func TestContainerMissingRequiredKeys(t *testing.T) {
	container := newTestContainer()

	assert.ElementsMatch(t, []string{"destination", "source", "type", "category"}, container.MissingRequiredKeys())

	container.Set("type", "withdrawal")
	container.Set("destination", "Boulangerie")
	container.Set("source", "Compte de Dépôt")
	container.Set("category", "Groceries")

	assert.Empty(t, container.MissingRequiredKeys())
}

func TestContainerSnapshotShadowsNonExported(t *testing.T) {
	container := NewInformationContainer(
		map[string]interface{}{"description": "exported"},
		map[string]interface{}{"description": "hidden", "operation_type": "VIREMENT"},
	)

	snapshot := container.Snapshot()
	assert.Equal(t, "exported", snapshot["description"])
	assert.Equal(t, "VIREMENT", snapshot["operation_type"])

	exported := container.Exported()
	assert.Equal(t, map[string]interface{}{"description": "exported"}, exported)

	// Snapshot is a copy, mutating it leaves the container alone.
	snapshot["description"] = "mutated"
	value, err := container.Get("description")
	require.NoError(t, err)
	assert.Equal(t, "exported", value)
}
