// Package transfers detects pairs of independently-fetched transactions that
// are really one movement of funds between two of the user's accounts, and
// folds each pair into a single transfer record.
package transfers

import (
	"math"
	"time"

	"k8s.io/klog"

	"github.com/bcaldwell/bankshift/pkg/firefly"
)

// AccountTransactions pairs an account with its not-yet-matched transactions.
// The matcher takes an ordered slice rather than a map so runs stay
// deterministic: the match result depends on traversal order.
type AccountTransactions struct {
	Account      *firefly.Account
	Transactions []*firefly.Transaction
}

// dayIndex groups one account's transactions by calendar day.
type dayIndex map[string][]*firefly.Transaction

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ReplaceTransfers scans every unordered pair of distinct accounts for
// matching transactions and rewrites each matched pair in place. A match is a
// pair of transactions on different accounts, on the same calendar day, with
// the same absolute amount; day and amount are exact, there is no tolerance
// window.
//
// The transaction on the searching side is rewritten into a transfer between
// the two account names and stays in its list; the matched transaction is
// removed from the other account's list so it cannot pair up again with a
// third account. Removal reassigns the Transactions slice of the affected
// entry; callers holding their own alias of a list must read it back from the
// entry after the call.
func ReplaceTransfers(accounts []*AccountTransactions) {
	indexes := make([]dayIndex, len(accounts))

	for i, account := range accounts {
		index := make(dayIndex)
		for _, transaction := range account.Transactions {
			key := dayKey(transaction.Date)
			index[key] = append(index[key], transaction)
		}

		indexes[i] = index
	}

	for i, first := range accounts {
		for j := i + 1; j < len(accounts); j++ {
			second := accounts[j]

			for _, transaction := range first.Transactions {
				match := findMatch(transaction, indexes[j])
				if match == nil {
					continue
				}

				switch transaction.Type {
				case firefly.Deposit:
					transaction.SourceName = second.Account.Name
					transaction.DestinationName = first.Account.Name
				case firefly.Withdrawal:
					transaction.SourceName = first.Account.Name
					transaction.DestinationName = second.Account.Name
				}

				transaction.Type = firefly.Transfer

				second.Transactions = removeTransaction(second.Transactions, match)
				key := dayKey(match.Date)
				indexes[j][key] = removeTransaction(indexes[j][key], match)
			}
		}
	}
}

// findMatch returns the first same-day transaction of the indexed account
// with the same absolute amount, or nil. When several candidates qualify the
// first one in the account's original order wins; no further signal (such as
// description similarity) is considered.
func findMatch(transaction *firefly.Transaction, other dayIndex) *firefly.Transaction {
	sameDay, ok := other[dayKey(transaction.Date)]
	if !ok {
		return nil
	}

	amount := math.Abs(transaction.Amount)

	candidates := []*firefly.Transaction{}

	for _, candidate := range sameDay {
		if math.Abs(candidate.Amount) == amount {
			candidates = append(candidates, candidate)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	if len(candidates) > 1 {
		klog.V(1).Infof("%d transactions might match %q of %.2f on %s, picking the first one",
			len(candidates), transaction.Description, transaction.Amount, dayKey(transaction.Date))
	}

	return candidates[0]
}

// removeTransaction returns a copy without the removed transaction. The input
// slice and its backing array are left untouched; callers may still hold
// aliases of the original list.
func removeTransaction(transactions []*firefly.Transaction, remove *firefly.Transaction) []*firefly.Transaction {
	kept := make([]*firefly.Transaction, 0, len(transactions))

	for _, transaction := range transactions {
		if transaction != remove {
			kept = append(kept, transaction)
		}
	}

	return kept
}
