// Package fireflyimporter drives the bank-to-ledger pipeline: fetch raw
// operations, classify them with the rule file, merge intra-user transfers and
// submit what the ledger does not have yet.
package fireflyimporter

import (
	"context"
	"time"

	"k8s.io/klog"

	"github.com/bcaldwell/bankshift/internal/creditagricole"
	"github.com/bcaldwell/bankshift/internal/influxHelper"
	"github.com/bcaldwell/bankshift/pkg/config"
	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/postgresutils"
	"github.com/bcaldwell/bankshift/pkg/progress"
	"github.com/bcaldwell/bankshift/pkg/rules"
	"github.com/bcaldwell/bankshift/pkg/sqlarchive"
	"github.com/bcaldwell/bankshift/pkg/transfers"
)

const operationFetchLimit = 10000

type SyncRunner struct{}

func (r SyncRunner) Run() error {
	return importBank()
}

// accountEntry carries one bank account through the pipeline together with its
// ledger counterpart and classified transactions.
type accountEntry struct {
	bankAccount *creditagricole.Account
	account     *firefly.Account
	fetched     int
	pending     []*firefly.Transaction
	submitted   []*firefly.Transaction
}

func importBank() error {
	// The rule file is loaded before any network traffic so a broken rule
	// aborts the run without touching the bank or the ledger.
	ruleSet, err := rules.Load(config.CurrentBankConfig().RulesFile)
	if err != nil {
		return err
	}

	op := progress.Start("Connecting to the bank and the ledger")

	bank, err := creditagricole.NewClient(
		config.CurrentBankSecrets().Username,
		config.CurrentBankSecrets().Password,
		config.CurrentBankConfig().Region,
	)
	if err != nil {
		return err
	}

	client := firefly.NewClient(config.CurrentFireflyConfig().URL, config.CurrentFireflySecrets().Token)

	op.Done()

	entries, err := fetchAndClassify(bank, ruleSet)
	if err != nil {
		return err
	}

	matchOp := progress.Start("Matching transfers between accounts")
	matchTransfers(entries)
	matchOp.Done()

	err = registerAccounts(client, entries)
	if err != nil {
		return err
	}

	err = submitEntries(client, entries)
	if err != nil {
		return err
	}

	if config.CurrentConfig().SQL.Enabled {
		err = archiveEntries(entries)
		if err != nil {
			klog.Warningf("archiving transactions failed: %v\n", err)
		}
	}

	if config.CurrentConfig().Influx.Enabled {
		err = writeRunStats(entries)
		if err != nil {
			klog.Warningf("writing run stats failed: %v\n", err)
		}
	}

	return nil
}

// fetchAndClassify pulls every account's operations from the bank, runs the
// rule set over them and maps the accounts onto the ledger vocabulary.
func fetchAndClassify(bank *creditagricole.Client, ruleSet *rules.RuleSet) ([]*accountEntry, error) {
	op := progress.Start("Fetching and classifying bank operations")

	bankAccounts, err := bank.Accounts()
	if err != nil {
		return nil, err
	}

	start := time.Time{}
	if days := config.CurrentBankConfig().LookbackDays; days > 0 {
		start = time.Now().AddDate(0, 0, -days)
	}

	entries := make([]*accountEntry, 0, len(bankAccounts))

	for _, bankAccount := range bankAccounts {
		accountOp := op.Child(bankAccount.Label)

		operations, err := bank.Operations(bankAccount, start, time.Time{}, operationFetchLimit)
		if err != nil {
			return nil, err
		}

		account, err := ledgerAccount(bankAccount, operations)
		if err != nil {
			return nil, err
		}

		transactions := make([]*firefly.Transaction, 0, len(operations))

		for _, operation := range operations {
			transaction, err := classifyOperation(ruleSet, operation, bankAccount)
			if err != nil {
				return nil, err
			}

			normalizeAmount(transaction)
			defaultAccountNames(transaction, account)
			transactions = append(transactions, transaction)
		}

		entries = append(entries, &accountEntry{
			bankAccount: bankAccount,
			account:     account,
			fetched:     len(transactions),
			pending:     transactions,
		})

		accountOp.Done()
	}

	op.Done()

	return entries, nil
}

// normalizeAmount strips the bank's sign convention: the ledger expects
// positive amounts, with direction carried by the transaction type.
func normalizeAmount(transaction *firefly.Transaction) {
	if transaction.Amount < 0 {
		transaction.Amount = -transaction.Amount
	}
}

// defaultAccountNames fills the side of the transaction the rule file left
// open with the owning account.
func defaultAccountNames(transaction *firefly.Transaction, account *firefly.Account) {
	if transaction.Type == firefly.Withdrawal && transaction.SourceName == "" {
		transaction.SourceName = account.Name
	}

	if transaction.Type == firefly.Deposit && transaction.DestinationName == "" {
		transaction.DestinationName = account.Name
	}
}

// matchTransfers runs transfer matching over every entry and copies the
// per-account lists back: matching reassigns the slice of an account that lost
// a matched transaction.
func matchTransfers(entries []*accountEntry) {
	input := transferInput(entries)

	transfers.ReplaceTransfers(input)

	for i, entry := range entries {
		entry.pending = input[i].Transactions
	}
}

func transferInput(entries []*accountEntry) []*transfers.AccountTransactions {
	input := make([]*transfers.AccountTransactions, 0, len(entries))

	for _, entry := range entries {
		input = append(input, &transfers.AccountTransactions{
			Account:      entry.account,
			Transactions: entry.pending,
		})
	}

	return input
}

// registerAccounts makes sure every bank account exists in the ledger and
// swaps in the registered record, which carries the ledger id.
func registerAccounts(client *firefly.Client, entries []*accountEntry) error {
	op := progress.Start("Registering accounts in the ledger")

	for _, entry := range entries {
		registered, err := client.CreateAccountIfNotPresent(entry.account)
		if err != nil {
			return err
		}

		entry.account = registered
	}

	op.Done()

	return nil
}

func submitEntries(client *firefly.Client, entries []*accountEntry) error {
	op := progress.Start("Submitting transactions")
	budgets := newBudgetResolver(client)

	for _, entry := range entries {
		accountOp := op.Child(entry.account.Name)

		submitted, err := submitAccount(client, budgets, entry, accountOp)
		if err != nil {
			return err
		}

		entry.submitted = submitted

		accountOp.Printf("%d of %d transactions submitted", len(submitted), len(entry.pending))
		accountOp.Done()
	}

	op.Done()

	return nil
}

func archiveEntries(entries []*accountEntry) error {
	op := progress.Start("Archiving transactions to Postgres")
	defer op.Done()

	db, err := postgresutils.CreatePostgresClient(config.CurrentConfig().SQL.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	archiver := sqlarchive.NewArchiver(db)

	err = archiver.Migrate(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		_, err = archiver.Archive(ctx, entry.account.Name, entry.submitted)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeRunStats(entries []*accountEntry) error {
	influxClient, err := influxHelper.CreateInfluxClient(config.CurrentInfluxSecrets())
	if err != nil {
		return err
	}
	defer influxClient.Close()

	database := config.CurrentConfig().Influx.Database

	err = influxHelper.CreateDatabase(influxClient, database)
	if err != nil {
		return err
	}

	stats := make([]influxHelper.AccountStats, 0, len(entries))

	for _, entry := range entries {
		stats = append(stats, influxHelper.AccountStats{
			Account:   entry.account.Name,
			Balance:   entry.bankAccount.Balance,
			Fetched:   entry.fetched,
			Submitted: len(entry.submitted),
		})
	}

	return influxHelper.WriteRunStats(influxClient, database, stats)
}
