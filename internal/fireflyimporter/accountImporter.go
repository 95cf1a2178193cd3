package fireflyimporter

import (
	"github.com/bcaldwell/bankshift/internal/creditagricole"
	"github.com/bcaldwell/bankshift/pkg/firefly"
)

// ledgerAccount maps a bank account onto its ledger representation. The
// opening balance is reconstructed by walking the fetched operations back from
// the current balance; its date is set one day before the oldest operation so
// the opening entry never collides with a real one.
func ledgerAccount(bankAccount *creditagricole.Account, operations []*creditagricole.Operation) (*firefly.Account, error) {
	accountType, err := bankAccount.LedgerAccountType()
	if err != nil {
		return nil, err
	}

	role, err := bankAccount.LedgerAccountRole()
	if err != nil {
		return nil, err
	}

	openingBalance, oldestDate := creditagricole.OldestBalance(bankAccount, operations)

	return &firefly.Account{
		Name:               bankAccount.Label,
		Type:               accountType,
		Role:               role,
		IBAN:               bankAccount.IBAN,
		BIC:                bankAccount.BIC,
		AccountNumber:      bankAccount.Number,
		OpeningBalance:     openingBalance,
		OpeningBalanceDate: oldestDate.AddDate(0, 0, -1),
	}, nil
}
