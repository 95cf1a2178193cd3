package fireflyimporter

import (
	"fmt"

	"github.com/bcaldwell/bankshift/pkg/config"
	"github.com/bcaldwell/bankshift/pkg/firefly"
	"github.com/bcaldwell/bankshift/pkg/progress"
)

// ListRunner prints registered transactions, optionally narrowed to the ones
// the rule file left unclassified. It is the quickest way to find operations
// that still need a rule.
type ListRunner struct {
	// NoTag keeps only transactions without any tag.
	NoTag bool
	// NoCategory keeps only transactions without a category.
	NoCategory bool
}

func (r ListRunner) Run() error {
	client := firefly.NewClient(config.CurrentFireflyConfig().URL, config.CurrentFireflySecrets().Token)

	op := progress.Start("Listing registered transactions")

	transactions, err := client.Transactions(nil)
	if err != nil {
		return err
	}

	listed := 0

	for _, transaction := range transactions {
		if r.NoTag && len(transaction.Tags) > 0 {
			continue
		}

		if r.NoCategory && transaction.CategoryName != "" {
			continue
		}

		fmt.Println(transaction.Summary())

		listed++
	}

	op.Printf("%d of %d transactions listed", listed, len(transactions))
	op.Done()

	return nil
}
