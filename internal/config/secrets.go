package config

import "github.com/caarlos0/env/v11"

// Secrets holds the process-environment inputs the core never
// persists or logs: the classifier credentials and the database DSN
// for the frontier/run-log stores. Absent credentials degrade the
// classifier to its no-op adapter; an absent DSN means the caller
// must fall back to an in-memory store.
type Secrets struct {
	DatabaseDSN      string `env:"FRONTIER_DATABASE_DSN"`
	ClassifierAPIKey string `env:"FRONTIER_CLASSIFIER_API_KEY"`
	ClassifierModel  string `env:"FRONTIER_CLASSIFIER_MODEL" envDefault:"gpt-4o-mini"`
	ChromeBinaryPath string `env:"FRONTIER_CHROME_BINARY"`
}

// LoadSecrets reads Secrets from the process environment. A missing
// optional field is never an error here; callers decide what to do
// with zero values (e.g. degrade to a no-op classifier).
func LoadSecrets() (Secrets, error) {
	return env.ParseAs[Secrets]()
}

func (s Secrets) HasClassifier() bool { return s.ClassifierAPIKey != "" }
func (s Secrets) HasDatabase() bool   { return s.DatabaseDSN != "" }
