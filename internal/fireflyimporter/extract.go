package fireflyimporter

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/klog"

	"github.com/bcaldwell/bankshift/internal/creditagricole"
	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/rules"
)

// operationContainer seeds a container from one raw bank operation. The
// exported layer holds the pre-computed transaction defaults; the raw
// operation type and the account's product label stay non-exported, available
// to rule conditions and templates only.
func operationContainer(operation *creditagricole.Operation, account *creditagricole.Account) *rules.InformationContainer {
	return rules.NewInformationContainer(
		map[string]interface{}{
			"date":                     operation.Date,
			"value_date":               operation.ValueDate,
			"amount":                   operation.Amount,
			"description":              operation.Description,
			"notes":                    operation.Note,
			"sepa_mandate_identifier":  operation.SepaMandate,
			"sepa_creditor_identifier": operation.SepaCreditor,
			"tags":                     "",
		},
		map[string]interface{}{
			"operation_type": operation.TypeLabel,
			"linked_account": account.Label,
		},
	)
}

// classifyOperation runs the rule set over one operation and builds the
// ledger transaction. Missing required classification fields are logged as a
// diagnostic for the rule file author; the transaction is still produced.
func classifyOperation(ruleSet *rules.RuleSet, operation *creditagricole.Operation, account *creditagricole.Account) (*firefly.Transaction, error) {
	information, err := ruleSet.Apply(operationContainer(operation, account))
	if err != nil {
		return nil, err
	}

	if missing := information.MissingRequiredKeys(); len(missing) > 0 {
		klog.Warningf("%-40s %-32s %8.2f\n", strings.Join(missing, ","), operation.Description, operation.Amount)
	}

	information.Set("tags", splitTags(containerString(information, "tags")))
	rules.ToLedgerKeys(information)

	return transactionFromContainer(information)
}

// splitTags turns the accumulated comma-separated tags value into a trimmed
// list, dropping empty entries.
func splitTags(raw string) []string {
	tags := []string{}

	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// transactionFromContainer consumes a container whose keys have already been
// renamed to the ledger vocabulary.
func transactionFromContainer(information *rules.InformationContainer) (*firefly.Transaction, error) {
	transactionType := containerString(information, "transaction_type")
	if transactionType == "" {
		return nil, fmt.Errorf("extracted information has no transaction type")
	}

	return &firefly.Transaction{
		Type:            firefly.TransactionType(transactionType),
		Date:            containerTime(information, "date"),
		ValueDate:       containerTime(information, "value_date"),
		Amount:          containerFloat(information, "amount"),
		Description:     containerString(information, "description"),
		SourceName:      containerString(information, "source_name"),
		DestinationName: containerString(information, "destination_name"),
		BudgetName:      containerString(information, "budget_name"),
		CategoryName:    containerString(information, "category_name"),
		BillName:        containerString(information, "bill_name"),
		Tags:            containerStrings(information, "tags"),
		Notes:           containerString(information, "notes"),
		SepaMandate:     containerString(information, "sepa_mandate_identifier"),
		SepaCreditor:    containerString(information, "sepa_creditor_identifier"),
	}, nil
}

// transactionContainer is the reverse of transactionFromContainer, used when
// re-applying rules to transactions fetched back from the ledger.
func transactionContainer(transaction *firefly.Transaction) *rules.InformationContainer {
	return rules.NewInformationContainer(
		map[string]interface{}{
			"transaction_type":         string(transaction.Type),
			"date":                     transaction.Date,
			"value_date":               transaction.ValueDate,
			"amount":                   transaction.Amount,
			"description":              transaction.Description,
			"source_name":              transaction.SourceName,
			"destination_name":         transaction.DestinationName,
			"budget_name":              transaction.BudgetName,
			"category_name":            transaction.CategoryName,
			"bill_name":                transaction.BillName,
			"tags":                     strings.Join(transaction.Tags, ","),
			"notes":                    transaction.Notes,
			"sepa_mandate_identifier":  transaction.SepaMandate,
			"sepa_creditor_identifier": transaction.SepaCreditor,
		},
		nil,
	)
}

func containerString(information *rules.InformationContainer, key string) string {
	value, err := information.Get(key)
	if err != nil {
		return ""
	}

	text, _ := value.(string)

	return text
}

func containerFloat(information *rules.InformationContainer, key string) float64 {
	value, err := information.Get(key)
	if err != nil {
		return 0
	}

	number, _ := value.(float64)

	return number
}

func containerTime(information *rules.InformationContainer, key string) time.Time {
	value, err := information.Get(key)
	if err != nil {
		return time.Time{}
	}

	date, _ := value.(time.Time)

	return date
}

func containerStrings(information *rules.InformationContainer, key string) []string {
	value, err := information.Get(key)
	if err != nil {
		return nil
	}

	values, _ := value.([]string)

	return values
}
