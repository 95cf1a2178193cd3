package fireflyimporter

import (
	"github.com/bcaldwell/bankshift/pkg/config"
	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/progress"
	"github.com/bcaldwell/bankshift/pkg/rules"
)

// UpdateRunner re-applies the rule file to transactions already registered in
// the ledger, so editing a rule retroactively fixes past classifications.
type UpdateRunner struct{}

func (r UpdateRunner) Run() error {
	ruleSet, err := rules.Load(config.CurrentBankConfig().RulesFile)
	if err != nil {
		return err
	}

	client := firefly.NewClient(config.CurrentFireflyConfig().URL, config.CurrentFireflySecrets().Token)

	op := progress.Start("Re-applying rules to registered transactions")

	transactions, err := client.Transactions(nil)
	if err != nil {
		return err
	}

	updated := 0

	for _, transaction := range transactions {
		// Transfers come out of the matching pass and opening balances are
		// synthetic; only rule-classified transactions are revisited.
		if transaction.Type != firefly.Withdrawal && transaction.Type != firefly.Deposit {
			continue
		}

		reclassified, err := reclassify(ruleSet, transaction)
		if err != nil {
			return err
		}

		if reclassified == nil {
			continue
		}

		op.Printf("Updating %s", reclassified.Summary())

		err = client.UpdateTransaction(reclassified)
		if err != nil {
			return err
		}

		updated++
	}

	op.Printf("%d of %d transactions updated", updated, len(transactions))
	op.Done()

	return nil
}

// reclassify runs the rule set over one registered transaction and returns
// the updated record, or nil when the rules produce the same classification.
// The bank's sign convention is restored first so amount-based conditions see
// the value they were written against.
func reclassify(ruleSet *rules.RuleSet, transaction *firefly.Transaction) (*firefly.Transaction, error) {
	signed := *transaction
	if signed.Type == firefly.Withdrawal {
		signed.Amount = -signed.Amount
	}

	information := transactionContainer(&signed)
	rules.FromLedgerKeys(information)

	_, err := ruleSet.Apply(information)
	if err != nil {
		return nil, err
	}

	information.Set("tags", splitTags(containerString(information, "tags")))
	rules.ToLedgerKeys(information)

	fresh, err := transactionFromContainer(information)
	if err != nil {
		return nil, err
	}

	normalizeAmount(fresh)

	candidate := *transaction
	candidate.UpdateWith(fresh)

	if classificationEqual(&candidate, transaction) {
		return nil, nil
	}

	return &candidate, nil
}

func classificationEqual(a, b *firefly.Transaction) bool {
	return a.CategoryName == b.CategoryName &&
		a.BillName == b.BillName &&
		a.BudgetName == b.BudgetName &&
		a.Description == b.Description &&
		a.Notes == b.Notes &&
		a.SourceName == b.SourceName &&
		a.DestinationName == b.DestinationName &&
		equalTags(a.Tags, b.Tags)
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
