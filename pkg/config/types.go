package config

type Config struct {
	Bank    BankConfig
	Firefly FireflyConfig
	SQL     SQLConfig
	Influx  InfluxConfig
}

type Secrets struct {
	Bank    BankSecrets
	Firefly FireflySecrets
	Influx  InfluxSecrets
	SQL     SqlSecrets

	// Alternative to the SQL struct, designed to be used with a heroku-style
	// environment variable.
	DatabaseURL string `env:"DATABASE_URL"`
}

type BankConfig struct {
	// Region code of the Crédit Agricole branch, e.g. "pyrenees-gascogne".
	Region string `json:"region"`
	// RulesFile is the INI rule file used to classify operations.
	RulesFile string `json:"rulesFile"`
	// LookbackDays bounds how far back operations are fetched. Defaults to
	// ten years when zero.
	LookbackDays    int    `json:"lookbackDays"`
	UpdateFrequency string `json:"updateFrequency"`
}

type FireflyConfig struct {
	URL string `json:"url"`
}

type SQLConfig struct {
	Enabled           bool   `json:"enabled"`
	Database          string `json:"database"`
	TransactionsTable string `json:"transactionsTable"`
}

type InfluxConfig struct {
	Enabled  bool   `json:"enabled"`
	Database string `json:"database"`
}

type BankSecrets struct {
	// Username is the account number, e.g. "01234567890".
	Username string `json:"username" env:"CA_USERNAME"`
	// Password is the 6-digit keypad password.
	Password string `json:"password" env:"CA_PASSWORD"`
}

type FireflySecrets struct {
	Token string `json:"fireflyToken" env:"FIREFLY_TOKEN"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `json:"influxEndpoint" env:"INFLUX_ENDPOINT"`
	InfluxUsername string `json:"influxUsername" env:"INFLUX_USERNAME"`
	InfluxPassword string `json:"influxPassword" env:"INFLUX_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `json:"sqlHost" env:"SQL_HOST"`
	SqlUsername string `json:"sqlUsername" env:"SQL_USERNAME"`
	SqlPassword string `json:"sqlPassword" env:"SQL_PASSWORD"`
}
