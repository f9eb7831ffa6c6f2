package cmd

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/clearlot/costbasis"
)

// Config carries the defaults a user keeps next to their ledger, so the
// common flags need not be repeated on every invocation.
type Config struct {
	Method   string                 `yaml:"method"`
	Currency string                 `yaml:"currency"`
	Ledger   string                 `yaml:"ledger"`
	Database string                 `yaml:"database"`
	Prices   []costbasis.PriceQuery `yaml:"prices"`
}

// configFile is overridable with CBT_CONFIG; missing files just mean
// built-in defaults.
const configFile = "cbt.yaml"

var (
	configOnce sync.Once
	config     Config
)

func loadConfig() Config {
	configOnce.Do(func() {
		config = Config{
			Method:   costbasis.FIFO.String(),
			Currency: "USD",
			Ledger:   "transactions.jsonl",
		}
		path := configFile
		if env := os.Getenv("CBT_CONFIG"); env != "" {
			path = env
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		// A malformed config is ignored rather than fatal; every value has a
		// flag the user can still pass explicitly.
		_ = yaml.Unmarshal(data, &config)
		if config.Method == "" {
			config.Method = costbasis.FIFO.String()
		}
		if config.Currency == "" {
			config.Currency = "USD"
		}
		if config.Ledger == "" {
			config.Ledger = "transactions.jsonl"
		}
	})
	return config
}
