package rules

// Rule files speak a short vocabulary ('source', 'type', ...) while the
// ledger's transaction attributes carry longer names ('source_name',
// 'transaction_type', ...). The renames below translate a container between
// the two before building a ledger record, and back again when re-applying
// rules to records fetched from the ledger.

var ruleKeyToLedgerKey = map[string]string{
	"source":      "source_name",
	"destination": "destination_name",
	"type":        "transaction_type",
	"category":    "category_name",
	"bill":        "bill_name",
	"budget":      "budget_name",
}

// renameOrder keeps the renames deterministic.
var renameOrder = []string{"source", "destination", "type", "category", "bill", "budget"}

// ToLedgerKeys renames the rule-vocabulary keys of the container to the
// ledger attribute names, in place. Default-initialised status survives the
// rename.
func ToLedgerKeys(information *InformationContainer) {
	for _, ruleKey := range renameOrder {
		if information.hasExported(ruleKey) {
			// Rename cannot fail here, the key was just checked.
			_ = information.Rename(ruleKey, ruleKeyToLedgerKey[ruleKey])
		}
	}
}

// FromLedgerKeys performs the reverse of ToLedgerKeys.
func FromLedgerKeys(information *InformationContainer) {
	for _, ruleKey := range renameOrder {
		ledgerKey := ruleKeyToLedgerKey[ruleKey]
		if information.hasExported(ledgerKey) {
			_ = information.Rename(ledgerKey, ruleKey)
		}
	}
}
