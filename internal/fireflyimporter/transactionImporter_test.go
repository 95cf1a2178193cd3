package fireflyimporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/bankshift/pkg/firefly"
)

func dated(dayOfMonth int) *firefly.Transaction {
	return &firefly.Transaction{
		Type: firefly.Withdrawal,
		Date: time.Date(2023, time.March, dayOfMonth, 0, 0, 0, 0, time.UTC),
	}
}

func TestPendingTransactionsFiltersAndSorts(t *testing.T) {
	// Bank order is most recent first.
	transactions := []*firefly.Transaction{dated(9), dated(7), dated(5), dated(3)}
	lastRegistered := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)

	pending := pendingTransactions(transactions, lastRegistered)

	require.Len(t, pending, 2)
	assert.Equal(t, 7, pending[0].Date.Day())
	assert.Equal(t, 9, pending[1].Date.Day())
}

func TestPendingTransactionsExcludesLastRegisteredDay(t *testing.T) {
	transactions := []*firefly.Transaction{dated(5)}
	lastRegistered := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, pendingTransactions(transactions, lastRegistered))
}

func TestPendingTransactionsAgainstEmptyLedger(t *testing.T) {
	transactions := []*firefly.Transaction{dated(9), dated(3)}

	pending := pendingTransactions(transactions, firefly.FarPast)

	require.Len(t, pending, 2)
	assert.Equal(t, 3, pending[0].Date.Day())
}

func TestClassificationEqual(t *testing.T) {
	a := &firefly.Transaction{CategoryName: "Groceries", Tags: []string{"food"}}
	b := &firefly.Transaction{CategoryName: "Groceries", Tags: []string{"food"}}
	assert.True(t, classificationEqual(a, b))

	b.Tags = []string{"food", "card"}
	assert.False(t, classificationEqual(a, b))

	b.Tags = []string{"food"}
	b.CategoryName = "Food"
	assert.False(t, classificationEqual(a, b))
}
