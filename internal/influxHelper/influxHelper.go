package influxHelper

import (
	"fmt"
	"strings"
	"time"

	influxdb "github.com/influxdata/influxdb/client/v2"

	"github.com/bcaldwell/bankshift/pkg/config"
)

func CreateInfluxClient(secrets *config.InfluxSecrets) (influxdb.Client, error) {
	return influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

func CreateDatabase(influxClient influxdb.Client, name string) error {
	name = strings.Split(name, " ")[0]

	createCommand := fmt.Sprintf("CREATE DATABASE %s", name)

	q := influxdb.NewQuery(createCommand, "", "")

	response, err := influxClient.Query(q)
	if err != nil {
		return err
	}

	return response.Error()
}

// AccountStats is one per-account measurement of a sync run.
type AccountStats struct {
	Account   string
	Balance   float64
	Fetched   int
	Submitted int
}

// WriteRunStats records one point per synced account, so balances and sync
// volume can be graphed over time.
func WriteRunStats(influxClient influxdb.Client, database string, stats []AccountStats) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  database,
		Precision: "s",
	})
	if err != nil {
		return err
	}

	now := time.Now()

	for _, s := range stats {
		point, err := influxdb.NewPoint("sync",
			map[string]string{
				"account": s.Account,
			},
			map[string]interface{}{
				"balance":   s.Balance,
				"fetched":   s.Fetched,
				"submitted": s.Submitted,
			},
			now)
		if err != nil {
			return err
		}

		bp.AddPoint(point)
	}

	return influxClient.Write(bp)
}
