package fireflyimporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/bankshift/pkg/firefly"
)

func TestMatchTransfersShrinksMatchedSidePendingList(t *testing.T) {
	transferDay := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)

	matched := &firefly.Transaction{Type: firefly.Deposit, Date: transferDay, Amount: 120, Description: "from checking"}
	unrelated := &firefly.Transaction{Type: firefly.Deposit, Date: transferDay.AddDate(0, 0, 2), Amount: 40, Description: "salary"}

	checking := &accountEntry{
		account: &firefly.Account{Name: "Compte de Dépôt"},
		pending: []*firefly.Transaction{
			{Type: firefly.Withdrawal, Date: transferDay, Amount: 120, Description: "to savings"},
		},
	}
	savings := &accountEntry{
		account: &firefly.Account{Name: "Livret A"},
		pending: []*firefly.Transaction{matched, unrelated},
	}

	matchTransfers([]*accountEntry{checking, savings})

	// The matched side's list shrinks to the unmatched transaction only, with
	// no duplicated entries for submission.
	require.Len(t, savings.pending, 1)
	assert.Same(t, unrelated, savings.pending[0])

	require.Len(t, checking.pending, 1)
	assert.Equal(t, firefly.Transfer, checking.pending[0].Type)
	assert.Equal(t, "Compte de Dépôt", checking.pending[0].SourceName)
	assert.Equal(t, "Livret A", checking.pending[0].DestinationName)
}
