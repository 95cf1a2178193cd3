package transfers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/bankshift/pkg/firefly"
)

func day(dayOfMonth int) time.Time {
	return time.Date(2023, time.March, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func withdrawal(date time.Time, amount float64, description string) *firefly.Transaction {
	return &firefly.Transaction{
		Type:        firefly.Withdrawal,
		Date:        date,
		Amount:      amount,
		Description: description,
	}
}

func deposit(date time.Time, amount float64, description string) *firefly.Transaction {
	return &firefly.Transaction{
		Type:        firefly.Deposit,
		Date:        date,
		Amount:      amount,
		Description: description,
	}
}

func TestReplaceTransfersMergesMatchingPair(t *testing.T) {
	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 200, "VIREMENT EMIS")},
	}
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{deposit(day(5), 200, "VIREMENT RECU")},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings})

	require.Len(t, checking.Transactions, 1)
	assert.Empty(t, savings.Transactions)

	transfer := checking.Transactions[0]
	assert.Equal(t, firefly.Transfer, transfer.Type)
	assert.Equal(t, "Compte de Dépôt", transfer.SourceName)
	assert.Equal(t, "Livret A", transfer.DestinationName)
}

func TestReplaceTransfersDepositSideDirection(t *testing.T) {
	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{deposit(day(5), 150, "VIREMENT RECU")},
	}
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 150, "VIREMENT EMIS")},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings})

	require.Len(t, checking.Transactions, 1)
	assert.Empty(t, savings.Transactions)

	transfer := checking.Transactions[0]
	assert.Equal(t, firefly.Transfer, transfer.Type)
	assert.Equal(t, "Livret A", transfer.SourceName)
	assert.Equal(t, "Compte de Dépôt", transfer.DestinationName)
}

func TestReplaceTransfersRequiresExactDayAndAmount(t *testing.T) {
	checking := &AccountTransactions{
		Account: &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{
			withdrawal(day(5), 200, "different day"),
			withdrawal(day(7), 99.99, "different amount"),
		},
	}
	savings := &AccountTransactions{
		Account: &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{
			deposit(day(6), 200, "a day late"),
			deposit(day(7), 100, "a cent off"),
		},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings})

	for _, transaction := range checking.Transactions {
		assert.NotEqual(t, firefly.Transfer, transaction.Type)
	}

	assert.Len(t, savings.Transactions, 2)
}

func TestReplaceTransfersNeverMatchesWithinOneAccount(t *testing.T) {
	checking := &AccountTransactions{
		Account: &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{
			withdrawal(day(5), 80, "out"),
			deposit(day(5), 80, "in"),
		},
	}

	ReplaceTransfers([]*AccountTransactions{checking})

	for _, transaction := range checking.Transactions {
		assert.NotEqual(t, firefly.Transfer, transaction.Type)
	}
}

func TestReplaceTransfersAmbiguityPicksFirstCandidate(t *testing.T) {
	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 50, "VIREMENT EMIS")},
	}

	first := deposit(day(5), 50, "first candidate")
	second := deposit(day(5), 50, "second candidate")
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{first, second},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings})

	require.Len(t, savings.Transactions, 1)
	assert.Same(t, second, savings.Transactions[0])
	assert.Equal(t, firefly.Transfer, checking.Transactions[0].Type)
}

func TestReplaceTransfersMatchedSideCannotPairAgain(t *testing.T) {
	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 300, "to savings")},
	}
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{deposit(day(5), 300, "from checking")},
	}
	other := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret Jeune"},
		Transactions: []*firefly.Transaction{deposit(day(6), 300, "unrelated deposit")},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings, other})

	// The savings deposit was consumed by the first pair and cannot pair with
	// the third account's deposit on the following day.
	assert.Empty(t, savings.Transactions)
	require.Len(t, other.Transactions, 1)
	assert.NotEqual(t, firefly.Transfer, other.Transactions[0].Type)
}

func TestReplaceTransfersLeavesCallerAliasesIntact(t *testing.T) {
	matched := deposit(day(5), 120, "from checking")
	unrelated := deposit(day(9), 40, "salary")

	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 120, "to savings")},
	}
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{matched, unrelated},
	}

	before := savings.Transactions

	ReplaceTransfers([]*AccountTransactions{checking, savings})

	require.Len(t, savings.Transactions, 1)
	assert.Same(t, unrelated, savings.Transactions[0])

	// The pre-match alias still holds its original elements: removal copies
	// instead of shifting the shared backing array, so no element is
	// duplicated in slices the caller kept.
	require.Len(t, before, 2)
	assert.Same(t, matched, before[0])
	assert.Same(t, unrelated, before[1])
}

func TestReplaceTransfersSearchingSideKeepsIterating(t *testing.T) {
	// The searching side is not hard-limited to one match: when a further
	// account also holds a same-day same-amount transaction, that one is
	// consumed as well.
	checking := &AccountTransactions{
		Account:      &firefly.Account{Name: "Compte de Dépôt"},
		Transactions: []*firefly.Transaction{withdrawal(day(5), 300, "to savings")},
	}
	savings := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret A"},
		Transactions: []*firefly.Transaction{deposit(day(5), 300, "from checking")},
	}
	other := &AccountTransactions{
		Account:      &firefly.Account{Name: "Livret Jeune"},
		Transactions: []*firefly.Transaction{deposit(day(5), 300, "same day, same amount")},
	}

	ReplaceTransfers([]*AccountTransactions{checking, savings, other})

	assert.Empty(t, savings.Transactions)
	assert.Empty(t, other.Transactions)
	assert.Equal(t, firefly.Transfer, checking.Transactions[0].Type)
}
