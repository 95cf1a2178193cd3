// Package sqlarchive mirrors submitted transactions into Postgres. The ledger
// stays the source of truth; the archive exists for ad-hoc SQL over the full
// history.
package sqlarchive

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/postgresutils"
)

type ArchivedTransaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID          int64  `bun:",pk,autoincrement"`
	Key         string `bun:",unique,notnull"`
	Account     string
	Type        string
	Date        time.Time
	ValueDate   time.Time
	Amount      float64
	Description string
	Source      string
	Destination string
	Category    string
	Budget      string
	Bill        string
	Tags        []string `bun:",array"`
	Notes       string
	UpdatedAt   time.Time
}

type Archiver struct {
	db *bun.DB
}

func NewArchiver(db *bun.DB) *Archiver {
	return &Archiver{db: db}
}

func (a *Archiver) Migrate(ctx context.Context) error {
	_, err := a.db.NewCreateTable().
		Model((*ArchivedTransaction)(nil)).
		IfNotExists().
		Exec(ctx)

	return err
}

// Archive upserts the transactions of one account, keyed on account, date,
// description and amount so re-running a sync rewrites rather than duplicates.
func (a *Archiver) Archive(ctx context.Context, account string, transactions []*firefly.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	rows := make([]ArchivedTransaction, 0, len(transactions))
	now := time.Now()

	for _, transaction := range transactions {
		rows = append(rows, ArchivedTransaction{
			Key:         archiveKey(account, transaction),
			Account:     account,
			Type:        string(transaction.Type),
			Date:        transaction.Date,
			ValueDate:   transaction.ValueDate,
			Amount:      transaction.Amount,
			Description: transaction.Description,
			Source:      transaction.SourceName,
			Destination: transaction.DestinationName,
			Category:    transaction.CategoryName,
			Budget:      transaction.BudgetName,
			Bill:        transaction.BillName,
			Tags:        transaction.Tags,
			Notes:       transaction.Notes,
			UpdatedAt:   now,
		})
	}

	result, err := a.db.NewInsert().
		Model(&rows).
		On("CONFLICT (key) DO UPDATE").
		Set(postgresutils.TableSetString(a.db, (*ArchivedTransaction)(nil), "id", "key")).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	written, err := result.RowsAffected()
	if err != nil {
		return len(rows), nil
	}

	return int(written), nil
}

func archiveKey(account string, transaction *firefly.Transaction) string {
	return fmt.Sprintf("%s-%s-%s-%.2f", account, transaction.Date.Format("2006-01-02"), transaction.Description, transaction.Amount)
}
