package fireflyimporter

import (
	"sort"
	"time"

	"k8s.io/klog"

	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/progress"
)

// pendingTransactions keeps the transactions dated strictly after the last
// registered date, oldest first. Submitting oldest first keeps the gate
// monotone: a partially-failed run resumes where it stopped instead of
// skipping the gap.
func pendingTransactions(transactions []*firefly.Transaction, lastRegistered time.Time) []*firefly.Transaction {
	pending := []*firefly.Transaction{}

	for _, transaction := range transactions {
		if transaction.Date.After(lastRegistered) {
			pending = append(pending, transaction)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Date.Before(pending[j].Date)
	})

	return pending
}

// submitAccount inserts every transaction of the entry the ledger does not
// have yet and returns the ones that went through.
func submitAccount(client *firefly.Client, budgets *budgetResolver, entry *accountEntry, op *progress.Op) ([]*firefly.Transaction, error) {
	lastRegistered, err := client.LastTransactionDate(entry.account)
	if err != nil {
		return nil, err
	}

	pending := pendingTransactions(entry.pending, lastRegistered)
	submitted := make([]*firefly.Transaction, 0, len(pending))

	for _, transaction := range pending {
		budgets.resolve(transaction)

		if !transaction.Valid() {
			klog.Warningf("skipping transaction without resolvable accounts: %s\n", transaction.Summary())
			continue
		}

		err = client.InsertTransaction(transaction)
		if err != nil {
			return submitted, err
		}

		op.Print(transaction.Summary())
		submitted = append(submitted, transaction)
	}

	return submitted, nil
}

// budgetResolver turns budget names into ledger budget ids, caching lookups
// for the run. A name the ledger does not know is logged once and left unset.
type budgetResolver struct {
	client *firefly.Client
	ids    map[string]int
}

func newBudgetResolver(client *firefly.Client) *budgetResolver {
	return &budgetResolver{client: client, ids: map[string]int{}}
}

func (r *budgetResolver) resolve(transaction *firefly.Transaction) {
	if transaction.BudgetName == "" || transaction.BudgetID != 0 {
		return
	}

	id, ok := r.ids[transaction.BudgetName]
	if !ok {
		var err error

		id, err = r.client.GetBudget(transaction.BudgetName)
		if err != nil {
			klog.Warningf("cannot resolve budget %q: %v\n", transaction.BudgetName, err)
		}

		r.ids[transaction.BudgetName] = id
	}

	transaction.BudgetID = id
}
