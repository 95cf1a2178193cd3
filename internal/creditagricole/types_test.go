package creditagricole

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawOperationDecoding(t *testing.T) {
	raw := rawOperation{
		DateOperation: "Mar 5, 2023 12:00:00 AM",
		DateValeur:    "Mar 6, 2023 12:00:00 AM",
		Montant:       -12.5,
		Libelle:       "PAIEMENT CB BOULANGERIE     ",
		LibelleComp:   " CARTE 1234 ",
		LibelleType:   "PAIEMENT PAR CARTE ",
		ReferenceMand: " MANDATE-1 ",
	}

	operation, err := raw.operation()
	require.NoError(t, err)

	assert.Equal(t, -12.5, operation.Amount)
	assert.Equal(t, "PAIEMENT CB BOULANGERIE", operation.Description)
	assert.Equal(t, "CARTE 1234", operation.Note)
	assert.Equal(t, "PAIEMENT PAR CARTE", operation.TypeLabel)
	assert.Equal(t, "MANDATE-1", operation.SepaMandate)
	assert.Equal(t, "", operation.SepaCreditor)

	assert.Equal(t, 2023, operation.Date.Year())
	assert.Equal(t, time.March, operation.Date.Month())
	assert.Equal(t, 5, operation.Date.Day())
	assert.Equal(t, 6, operation.ValueDate.Day())
}

func TestRawOperationBadDate(t *testing.T) {
	raw := rawOperation{DateOperation: "2023-03-05"}

	_, err := raw.operation()
	require.Error(t, err)
}

func TestAccountLedgerMapping(t *testing.T) {
	checking := &Account{FamilyCode: "CPTDAV"}

	accountType, err := checking.LedgerAccountType()
	require.NoError(t, err)
	assert.Equal(t, "asset", accountType)

	role, err := checking.LedgerAccountRole()
	require.NoError(t, err)
	assert.Equal(t, "defaultAsset", role)

	savings := &Account{FamilyCode: "EPADIS"}

	role, err = savings.LedgerAccountRole()
	require.NoError(t, err)
	assert.Equal(t, "savingAsset", role)

	unknown := &Account{FamilyCode: "PEL"}

	_, err = unknown.LedgerAccountType()
	require.Error(t, err)

	_, err = unknown.LedgerAccountRole()
	require.Error(t, err)
}

func TestOldestBalance(t *testing.T) {
	account := &Account{Balance: 1000}

	// Most recent first, as the bank serves them.
	operations := []*Operation{
		{Date: time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC), Amount: 50},
		{Date: time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: -30},
	}

	balance, date := OldestBalance(account, operations)

	assert.Equal(t, 980.0, balance)
	assert.Equal(t, 5, date.Day())
}

func TestOldestBalanceWithoutOperations(t *testing.T) {
	account := &Account{Balance: 1000}

	balance, _ := OldestBalance(account, nil)
	assert.Equal(t, 1000.0, balance)
}
