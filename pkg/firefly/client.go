package firefly

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"k8s.io/klog"
)

// Client wraps Api with typed account and transaction operations. The core
// treats Firefly as a store of account and transaction records addressed by a
// ledger-assigned id plus a natural key (IBAN or name for accounts).
type Client struct {
	api *Api
}

func NewClient(hostname, token string) *Client {
	return &Client{api: NewApi(hostname, token)}
}

func (c *Client) getCustom(endpoint string, params url.Values) (map[string]interface{}, error) {
	response, err := c.api.Get(endpoint, params)
	if err != nil {
		return nil, err
	}

	if message, ok := response["message"].(string); ok {
		return nil, fmt.Errorf("firefly: %s", message)
	}

	return response, nil
}

// iterate walks every page of a paginated endpoint and returns the raw data
// items.
func (c *Client) iterate(endpoint string, params url.Values) ([]map[string]interface{}, error) {
	if params == nil {
		params = url.Values{}
	}

	params.Del("page")

	items := []map[string]interface{}{}
	page := 1
	totalPages := 1

	for page <= totalPages {
		if page > 1 {
			params.Set("page", strconv.Itoa(page))
		}

		response, err := c.getCustom(endpoint, params)
		if err != nil {
			return nil, err
		}

		data, _ := response["data"].([]interface{})
		for _, item := range data {
			if entry, ok := item.(map[string]interface{}); ok {
				items = append(items, entry)
			}
		}

		totalPages = paginationTotalPages(response)
		page++
	}

	return items, nil
}

func paginationTotalPages(response map[string]interface{}) int {
	meta, _ := response["meta"].(map[string]interface{})
	pagination, _ := meta["pagination"].(map[string]interface{})

	if total, ok := pagination["total_pages"].(float64); ok {
		return int(total)
	}

	return 1
}

func itemID(item map[string]interface{}) int {
	return apiInt(item, "id")
}

func itemAttributes(item map[string]interface{}) map[string]interface{} {
	attributes, _ := item["attributes"].(map[string]interface{})
	return attributes
}

// Accounts fetches every account.
func (c *Client) Accounts() ([]*Account, error) {
	items, err := c.iterate("accounts", nil)
	if err != nil {
		return nil, err
	}

	accounts := make([]*Account, 0, len(items))

	for _, item := range items {
		account, err := AccountFromAPI(itemID(item), itemAttributes(item))
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// GetAccount returns the account with the given name.
func (c *Client) GetAccount(name string) (*Account, error) {
	accounts, err := c.Accounts()
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.Name == name {
			return account, nil
		}
	}

	return nil, fmt.Errorf("account %q not found", name)
}

// CreateAccount registers the account and fills in its ledger id.
func (c *Client) CreateAccount(account *Account) error {
	response, err := c.api.Post("accounts", account.ToAPI())
	if err != nil {
		return err
	}

	if apiErrors, ok := response["errors"]; ok {
		return fmt.Errorf("cannot create account %q: %v (%v)", account.Name, response["message"], apiErrors)
	}

	data, _ := response["data"].(map[string]interface{})
	account.ID = itemID(data)

	klog.Infof("Account %q added with id %d\n", account.Name, account.ID)

	return nil
}

// CreateAccountIfNotPresent creates the account unless one with the same name
// already exists, and returns the registered account either way.
func (c *Client) CreateAccountIfNotPresent(account *Account) (*Account, error) {
	existing, err := c.Accounts()
	if err != nil {
		return nil, err
	}

	for _, candidate := range existing {
		if candidate.Name == account.Name {
			return candidate, nil
		}
	}

	err = c.CreateAccount(account)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetBudget returns the id of the budget with the given name.
func (c *Client) GetBudget(name string) (int, error) {
	response, err := c.getCustom("budgets", nil)
	if err != nil {
		return 0, err
	}

	data, _ := response["data"].([]interface{})

	for _, item := range data {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		if apiString(itemAttributes(entry), "name") == name {
			return itemID(entry), nil
		}
	}

	return 0, fmt.Errorf("budget %q not found", name)
}

// Transactions fetches every transaction journal matching params. Each data
// item of the endpoint groups one or more journal entries; they are flattened
// here.
func (c *Client) Transactions(params url.Values) ([]*Transaction, error) {
	items, err := c.iterate("transactions", params)
	if err != nil {
		return nil, err
	}

	return flattenTransactionItems(items)
}

func flattenTransactionItems(items []map[string]interface{}) ([]*Transaction, error) {
	transactions := []*Transaction{}

	for _, item := range items {
		journals, _ := itemAttributes(item)["transactions"].([]interface{})

		for _, journal := range journals {
			attributes, ok := journal.(map[string]interface{})
			if !ok {
				continue
			}

			transaction, err := TransactionFromAPI(apiInt(attributes, "transaction_journal_id"), attributes)
			if err != nil {
				return nil, err
			}

			transactions = append(transactions, transaction)
		}
	}

	return transactions, nil
}

// LastTransactionDate returns the date of the account's most recently
// registered transaction, or FarPast when none exist.
func (c *Client) LastTransactionDate(account *Account) (time.Time, error) {
	params := url.Values{}
	params.Set("limit", "1")

	response, err := c.getCustom(fmt.Sprintf("accounts/%d/transactions", account.ID), params)
	if err != nil {
		return time.Time{}, err
	}

	items, _ := response["data"].([]interface{})
	if len(items) == 0 {
		return FarPast, nil
	}

	entry, _ := items[0].(map[string]interface{})

	transactions, err := flattenTransactionItems([]map[string]interface{}{entry})
	if err != nil {
		return time.Time{}, err
	}

	if len(transactions) == 0 {
		return FarPast, nil
	}

	return transactions[0].Date, nil
}

// InsertTransaction submits one transaction.
func (c *Client) InsertTransaction(transaction *Transaction) error {
	response, err := c.api.Post("transactions", map[string]interface{}{
		"transactions": []map[string]interface{}{transaction.ToAPI()},
	})
	if err != nil {
		return err
	}

	if apiErrors, ok := response["errors"]; ok {
		return fmt.Errorf("cannot insert transaction %q: %v (%v)",
			transaction.Description, response["message"], apiErrors)
	}

	return nil
}

// UpdateTransaction rewrites an already-registered transaction.
func (c *Client) UpdateTransaction(transaction *Transaction) error {
	response, err := c.api.Put(fmt.Sprintf("transactions/%d", transaction.ID), map[string]interface{}{
		"transactions": []map[string]interface{}{transaction.ToAPI()},
	})
	if err != nil {
		return err
	}

	if apiErrors, ok := response["errors"]; ok {
		return fmt.Errorf("cannot update transaction %d: %v (%v)",
			transaction.ID, response["message"], apiErrors)
	}

	return nil
}

// InsertOrUpdateTransaction probes a one-day window around the transaction
// date for an equivalent registered transaction; when one is found it is
// updated in place, otherwise the transaction is inserted.
func (c *Client) InsertOrUpdateTransaction(transaction *Transaction) error {
	params := url.Values{}
	params.Set("type", string(transaction.Type))
	params.Set("start", transaction.Date.AddDate(0, 0, -1).Format("2006-01-02"))
	params.Set("end", transaction.Date.AddDate(0, 0, 1).Format("2006-01-02"))

	candidates, err := c.Transactions(params)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if transaction.Equivalent(candidate) {
			candidate.UpdateWith(transaction)
			return c.UpdateTransaction(candidate)
		}
	}

	return c.InsertTransaction(transaction)
}
