package creditagricole

import (
	"fmt"
	"strings"
	"time"
)

// Bank timestamps look like "Jan 5, 2022 12:00:00 AM" with no zone; the
// observed operations are all recorded at midnight Paris time.
const bankDateFormat = "Jan 2, 2006 3:04:05 PM"

var bankTimezone = time.FixedZone("CET", 1*60*60)

// Operation is one raw bank operation, already decoded from the bank's
// transport. Free-text fields arrive padded with trailing spaces and are
// trimmed here.
type Operation struct {
	Date         time.Time
	ValueDate    time.Time
	Amount       float64
	Description  string
	Note         string
	TypeLabel    string
	SepaMandate  string
	SepaCreditor string
}

type rawOperation struct {
	DateOperation string  `json:"dateOperation"`
	DateValeur    string  `json:"dateValeur"`
	Montant       float64 `json:"montant"`
	Libelle       string  `json:"libelleOperation"`
	LibelleComp   string  `json:"libelleComplementaire"`
	LibelleType   string  `json:"libelleTypeOperation"`
	ReferenceMand string  `json:"referenceMandat"`
	IDCreancier   string  `json:"idCreancier"`
}

func (r *rawOperation) operation() (*Operation, error) {
	date, err := parseBankDate(r.DateOperation)
	if err != nil {
		return nil, err
	}

	valueDate, err := parseBankDate(r.DateValeur)
	if err != nil {
		return nil, err
	}

	return &Operation{
		Date:         date,
		ValueDate:    valueDate,
		Amount:       r.Montant,
		Description:  strings.TrimSpace(r.Libelle),
		Note:         strings.TrimSpace(r.LibelleComp),
		TypeLabel:    strings.TrimSpace(r.LibelleType),
		SepaMandate:  strings.TrimSpace(r.ReferenceMand),
		SepaCreditor: strings.TrimSpace(r.IDCreancier),
	}, nil
}

func parseBankDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(bankDateFormat, raw, bankTimezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse bank date %q: %w", raw, err)
	}

	return parsed, nil
}

// Account is one bank account.
type Account struct {
	// Label is the product label, e.g. "Compte de Dépôt"; it becomes the
	// ledger account name.
	Label        string
	FamilyCode   string
	FamilyIndex  string
	Index        int
	Number       string
	CurrencyCode string
	Balance      float64
	IBAN         string
	BIC          string
}

type rawAccount struct {
	Index        int     `json:"index"`
	Libelle      string  `json:"libelleProduit"`
	FamilleCode  string  `json:"codeFamilleProduit"`
	GrandeFamile string  `json:"grandeFamilleProduitCode"`
	Numero       string  `json:"numeroCompte"`
	Devise       string  `json:"idDevise"`
	Solde        float64 `json:"solde"`
}

func (r *rawAccount) account() *Account {
	return &Account{
		Label:        strings.TrimSpace(r.Libelle),
		FamilyCode:   r.FamilleCode,
		FamilyIndex:  r.GrandeFamile,
		Index:        r.Index,
		Number:       r.Numero,
		CurrencyCode: r.Devise,
		Balance:      r.Solde,
	}
}

// The product family code decides how an account maps onto the ledger. An
// unmapped code is an error telling the operator to extend the tables.

var accountTypes = map[string]string{
	"EPADIS": "asset",
	"EPABOU": "asset",
	"CPTDAV": "asset",
}

var accountRoles = map[string]string{
	"EPADIS": "savingAsset",
	"EPABOU": "savingAsset",
	"CPTDAV": "defaultAsset",
}

func (a *Account) LedgerAccountType() (string, error) {
	accountType, ok := accountTypes[a.FamilyCode]
	if !ok {
		return "", fmt.Errorf("account with family code %q is not mapped to a ledger account type, please update", a.FamilyCode)
	}

	return accountType, nil
}

func (a *Account) LedgerAccountRole() (string, error) {
	role, ok := accountRoles[a.FamilyCode]
	if !ok {
		return "", fmt.Errorf("account with family code %q is not mapped to a ledger account role, please update", a.FamilyCode)
	}

	return role, nil
}
