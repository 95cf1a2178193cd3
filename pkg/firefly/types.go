package firefly

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransactionType enumerates the Firefly III transaction types.
// See https://docs.firefly-iii.org/firefly-iii/support/transaction_types/.
type TransactionType string

const (
	Withdrawal     TransactionType = "withdrawal"
	Deposit        TransactionType = "deposit"
	Transfer       TransactionType = "transfer"
	Reconciliation TransactionType = "reconciliation"
	OpeningBalance TransactionType = "opening balance"
)

// FarPast is the last-transaction date reported for an account with no
// registered transaction, so a first sync submits everything.
var FarPast = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Transaction is a Firefly III transaction. Amount is positive when sent to
// the API; the bank's sign convention is normalized before a Transaction is
// built. ValueDate is stored in Firefly as 'process_date', the SEPA mandate
// and creditor identifiers as 'sepa_db' and 'sepa_ci'.
type Transaction struct {
	ID              int
	Type            TransactionType
	Date            time.Time
	ValueDate       time.Time
	Amount          float64
	Description     string
	SourceID        int
	SourceName      string
	DestinationID   int
	DestinationName string
	BudgetID        int
	BudgetName      string
	CategoryName    string
	BillName        string
	Tags            []string
	Notes           string
	SepaMandate     string
	SepaCreditor    string
}

// Valid reports whether the transaction carries a resolvable source and
// destination, by id or by name.
func (t *Transaction) Valid() bool {
	return (t.SourceID != 0 || t.SourceName != "") &&
		(t.DestinationID != 0 || t.DestinationName != "")
}

// Equivalent reports whether other records the same underlying event,
// possibly re-fetched: type, dates, amount and both SEPA identifiers match.
// Description, category and tags are deliberately ignored so re-classification
// does not break the identity.
func (t *Transaction) Equivalent(other *Transaction) bool {
	return t.Type == other.Type &&
		t.Date.Equal(other.Date) &&
		t.ValueDate.Equal(other.ValueDate) &&
		t.Amount == other.Amount &&
		t.SepaMandate == other.SepaMandate &&
		t.SepaCreditor == other.SepaCreditor
}

// UpdateWith copies every non-zero attribute of other onto t.
func (t *Transaction) UpdateWith(other *Transaction) {
	if other.Type != "" {
		t.Type = other.Type
	}

	if !other.Date.IsZero() {
		t.Date = other.Date
	}

	if !other.ValueDate.IsZero() {
		t.ValueDate = other.ValueDate
	}

	if other.Amount != 0 {
		t.Amount = other.Amount
	}

	if other.Description != "" {
		t.Description = other.Description
	}

	if other.SourceID != 0 {
		t.SourceID = other.SourceID
	}

	if other.SourceName != "" {
		t.SourceName = other.SourceName
	}

	if other.DestinationID != 0 {
		t.DestinationID = other.DestinationID
	}

	if other.DestinationName != "" {
		t.DestinationName = other.DestinationName
	}

	if other.BudgetID != 0 {
		t.BudgetID = other.BudgetID
	}

	if other.BudgetName != "" {
		t.BudgetName = other.BudgetName
	}

	if other.CategoryName != "" {
		t.CategoryName = other.CategoryName
	}

	if other.BillName != "" {
		t.BillName = other.BillName
	}

	if len(other.Tags) > 0 {
		t.Tags = other.Tags
	}

	if other.Notes != "" {
		t.Notes = other.Notes
	}

	if other.SepaMandate != "" {
		t.SepaMandate = other.SepaMandate
	}

	if other.SepaCreditor != "" {
		t.SepaCreditor = other.SepaCreditor
	}
}

// ToAPI translates the transaction to the attribute names the API expects,
// omitting unset values. BudgetName is intentionally not forwarded: the API
// only takes budget_id on transactions.
func (t *Transaction) ToAPI() map[string]interface{} {
	payload := map[string]interface{}{
		"type":        string(t.Type),
		"date":        t.Date.Format(time.RFC3339),
		"amount":      t.Amount,
		"description": t.Description,
	}

	if !t.ValueDate.IsZero() {
		payload["process_date"] = t.ValueDate.Format(time.RFC3339)
	}

	setIfNotZero := func(key string, id int) {
		if id != 0 {
			payload[key] = id
		}
	}

	setIfNotEmpty := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}

	setIfNotZero("source_id", t.SourceID)
	setIfNotZero("destination_id", t.DestinationID)
	setIfNotZero("budget_id", t.BudgetID)
	setIfNotEmpty("source_name", t.SourceName)
	setIfNotEmpty("destination_name", t.DestinationName)
	setIfNotEmpty("category_name", t.CategoryName)
	setIfNotEmpty("bill_name", t.BillName)
	setIfNotEmpty("notes", t.Notes)
	setIfNotEmpty("sepa_db", t.SepaMandate)
	setIfNotEmpty("sepa_ci", t.SepaCreditor)

	if len(t.Tags) > 0 {
		payload["tags"] = t.Tags
	}

	return payload
}

// TransactionFromAPI builds a transaction from the decoded attributes of an
// API response.
func TransactionFromAPI(id int, attributes map[string]interface{}) (*Transaction, error) {
	date, err := apiTime(attributes, "date")
	if err != nil {
		return nil, err
	}

	valueDate, err := apiTime(attributes, "process_date")
	if err != nil {
		return nil, err
	}

	return &Transaction{
		ID:              id,
		Type:            TransactionType(apiString(attributes, "type")),
		Date:            date,
		ValueDate:       valueDate,
		Amount:          apiFloat(attributes, "amount"),
		Description:     apiString(attributes, "description"),
		SourceID:        apiInt(attributes, "source_id"),
		SourceName:      apiString(attributes, "source_name"),
		DestinationID:   apiInt(attributes, "destination_id"),
		DestinationName: apiString(attributes, "destination_name"),
		BudgetID:        apiInt(attributes, "budget_id"),
		BudgetName:      apiString(attributes, "budget_name"),
		CategoryName:    apiString(attributes, "category_name"),
		BillName:        apiString(attributes, "bill_name"),
		Tags:            apiStrings(attributes, "tags"),
		Notes:           apiString(attributes, "notes"),
		SepaMandate:     apiString(attributes, "sepa_db"),
		SepaCreditor:    apiString(attributes, "sepa_ci"),
	}, nil
}

// Summary is a one-line description used by the listing task.
func (t *Transaction) Summary() string {
	return fmt.Sprintf("%s %-10s %8.2f  %-32s category=%q tags=%s",
		t.Date.Format("2006-01-02"), t.Type, t.Amount, t.Description,
		t.CategoryName, strings.Join(t.Tags, ","))
}

// Account is a Firefly III account.
type Account struct {
	ID                 int
	Name               string
	Type               string
	IBAN               string
	BIC                string
	AccountNumber      string
	OpeningBalance     float64
	OpeningBalanceDate time.Time
	CurrencyCode       string
	Role               string
	Notes              string
}

// MatchKey is the account identity used when pairing transactions across
// accounts: the IBAN when known, else the name.
func (a *Account) MatchKey() string {
	if a.IBAN != "" {
		return a.IBAN
	}

	return a.Name
}

// Valid checks the attribute dependencies the API enforces: asset accounts
// need a role.
func (a *Account) Valid() bool {
	return a.Type != "asset" || a.Role != ""
}

func (a *Account) ToAPI() map[string]interface{} {
	payload := map[string]interface{}{
		"name": a.Name,
		"type": a.Type,
	}

	setIfNotEmpty := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}

	setIfNotEmpty("iban", a.IBAN)
	setIfNotEmpty("bic", a.BIC)
	setIfNotEmpty("account_number", a.AccountNumber)
	setIfNotEmpty("currency_code", a.CurrencyCode)
	setIfNotEmpty("account_role", a.Role)
	setIfNotEmpty("notes", a.Notes)

	if a.OpeningBalance != 0 {
		payload["opening_balance"] = a.OpeningBalance
		payload["opening_balance_date"] = a.OpeningBalanceDate.Format(time.RFC3339)
	}

	return payload
}

func AccountFromAPI(id int, attributes map[string]interface{}) (*Account, error) {
	openingBalanceDate, err := apiTime(attributes, "opening_balance_date")
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:                 id,
		Name:               apiString(attributes, "name"),
		Type:               apiString(attributes, "type"),
		IBAN:               apiString(attributes, "iban"),
		BIC:                apiString(attributes, "bic"),
		AccountNumber:      apiString(attributes, "account_number"),
		OpeningBalance:     apiFloat(attributes, "opening_balance"),
		OpeningBalanceDate: openingBalanceDate,
		CurrencyCode:       apiString(attributes, "currency_code"),
		Role:               apiString(attributes, "account_role"),
		Notes:              apiString(attributes, "notes"),
	}, nil
}

// The API is loose with scalar types: ids and amounts come back as strings,
// but are accepted as numbers. The helpers below take either.

func apiString(attributes map[string]interface{}, key string) string {
	if value, ok := attributes[key].(string); ok {
		return value
	}

	return ""
}

func apiFloat(attributes map[string]interface{}, key string) float64 {
	switch value := attributes[key].(type) {
	case float64:
		return value
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}

	return 0
}

func apiInt(attributes map[string]interface{}, key string) int {
	switch value := attributes[key].(type) {
	case float64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}

	return 0
}

func apiStrings(attributes map[string]interface{}, key string) []string {
	raw, ok := attributes[key].([]interface{})
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))

	for _, item := range raw {
		if value, ok := item.(string); ok {
			values = append(values, value)
		}
	}

	return values
}

func apiTime(attributes map[string]interface{}, key string) (time.Time, error) {
	raw, ok := attributes[key].(string)
	if !ok || raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %s %q: %w", key, raw, err)
	}

	return parsed, nil
}
