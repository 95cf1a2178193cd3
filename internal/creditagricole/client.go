// Package creditagricole fetches accounts and operations from the Crédit
// Agricole web API. It only deals with authentication, session handling and
// decoding; classifying the fetched operations happens elsewhere.
package creditagricole

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultLookback = 10 * 365 * 24 * time.Hour

// Client is an authenticated session against one regional branch.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient authenticates with the given account number and 6-digit keypad
// password against the region's branch, e.g. region "pyrenees-gascogne".
func NewClient(username, password, region string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := &Client{
		http:    &http.Client{Jar: jar},
		baseURL: fmt.Sprintf("https://www.credit-agricole.fr/ca-%s/particulier", region),
	}

	err = client.authenticate(username, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return client, nil
}

// authenticate performs the keypad login: the bank returns a randomised digit
// layout, and the submitted password is the comma-joined positions of each
// password digit in that layout.
func (c *Client) authenticate(username, password string) error {
	response, err := c.http.Post(c.baseURL+"/acceder-a-mes-comptes.authenticationKeypad.json", "application/json", nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	keypad := struct {
		KeypadID  string   `json:"keypadId"`
		KeyLayout []string `json:"keyLayout"`
	}{}

	err = json.NewDecoder(response.Body).Decode(&keypad)
	if err != nil {
		return fmt.Errorf("cannot decode keypad: %w", err)
	}

	positions := make([]string, 0, len(password))

	for _, digit := range strings.Split(password, "") {
		position := -1

		for i, key := range keypad.KeyLayout {
			if key == digit {
				position = i
				break
			}
		}

		if position == -1 {
			return fmt.Errorf("password digit not present on the keypad")
		}

		positions = append(positions, strconv.Itoa(position))
	}

	form := url.Values{}
	form.Set("j_username", username)
	form.Set("j_password", strings.Join(positions, ","))
	form.Set("keypadId", keypad.KeypadID)

	login, err := c.http.PostForm(c.baseURL+"/acceder-a-mes-comptes.html/j_security_check", form)
	if err != nil {
		return err
	}
	defer login.Body.Close()

	if login.StatusCode >= 400 {
		return fmt.Errorf("security check returned %d", login.StatusCode)
	}

	return nil
}

func (c *Client) getJSON(uri string, target interface{}) error {
	response, err := c.http.Get(uri)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d", uri, response.StatusCode)
	}

	return json.NewDecoder(response.Body).Decode(target)
}

// Accounts lists the accounts of the session across the current-account and
// savings product families.
func (c *Client) Accounts() ([]*Account, error) {
	accounts := []*Account{}

	// Family 1 holds current accounts, family 3 the savings products.
	for _, familyCode := range []string{"1", "3"} {
		uri := fmt.Sprintf("%s/operations/synthese/jcr:content.produits-valorisation.json/%s", c.baseURL, familyCode)

		raw := []rawAccount{}

		err := c.getJSON(uri, &raw)
		if err != nil {
			return nil, fmt.Errorf("cannot list accounts of family %s: %w", familyCode, err)
		}

		for i := range raw {
			account := raw[i].account()
			if account.FamilyIndex == "" {
				account.FamilyIndex = familyCode
			}

			iban, bic, err := c.ibanFor(account)
			if err == nil {
				account.IBAN = iban
				account.BIC = bic
			}

			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}

func (c *Client) ibanFor(account *Account) (string, string, error) {
	uri := fmt.Sprintf("%s/operations/operations-courantes/editer-rib/jcr:content.ibaninformation.json?compteIdx=%d&grandeFamilleCode=%s",
		c.baseURL, account.Index, account.FamilyIndex)

	decoded := struct {
		IbanData struct {
			IbanData struct {
				IbanCode string `json:"ibanCode"`
				BicCode  string `json:"bicCode"`
			} `json:"ibanData"`
		} `json:"ibanData"`
	}{}

	err := c.getJSON(uri, &decoded)
	if err != nil {
		return "", "", err
	}

	return decoded.IbanData.IbanData.IbanCode, decoded.IbanData.IbanData.BicCode, nil
}

// Operations returns the account's operations between start and end, most
// recent first, as the bank serves them. Zero times default to a ten-year
// lookback ending now; an empty time span is an error.
func (c *Client) Operations(account *Account, start, end time.Time, count int) ([]*Operation, error) {
	if start.IsZero() {
		start = time.Now().Add(-defaultLookback)
	}

	if end.IsZero() {
		end = time.Now()
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("the timespan in which operations should be recovered is empty")
	}

	params := url.Values{}
	params.Set("compteIdx", strconv.Itoa(account.Index))
	params.Set("grandeFamilleCode", account.FamilyIndex)
	params.Set("dateDebut", start.Format("2006-01-02"))
	params.Set("dateFin", end.Format("2006-01-02"))
	params.Set("count", strconv.Itoa(count))

	uri := fmt.Sprintf("%s/operations/synthese/detail-comptes/jcr:content.n3.operations.json?%s", c.baseURL, params.Encode())

	decoded := struct {
		ListeOperations []rawOperation `json:"listeOperations"`
	}{}

	err := c.getJSON(uri, &decoded)
	if err != nil {
		return nil, fmt.Errorf("cannot list operations of %q: %w", account.Label, err)
	}

	operations := make([]*Operation, 0, len(decoded.ListeOperations))

	for i := range decoded.ListeOperations {
		operation, err := decoded.ListeOperations[i].operation()
		if err != nil {
			return nil, err
		}

		operations = append(operations, operation)
	}

	return operations, nil
}

// OldestBalance walks back from the current balance through every known
// operation and returns the balance before the oldest one, with its date.
func OldestBalance(account *Account, operations []*Operation) (float64, time.Time) {
	balance := account.Balance

	for _, operation := range operations {
		balance -= operation.Amount
	}

	if len(operations) == 0 {
		return balance, time.Now()
	}

	return balance, operations[len(operations)-1].Date
}
