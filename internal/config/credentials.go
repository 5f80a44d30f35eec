package config

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Credentials are the content-source API credentials.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

const (
	envClientID     = "REDDIT_CLIENT_ID"
	envClientSecret = "REDDIT_CLIENT_SECRET"

	placeholderID     = "YOUR_CLIENT_ID"
	placeholderSecret = "YOUR_CLIENT_SECRET"
)

// LoadCredentials resolves API credentials, in order: values already present
// in the config, the REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET environment
// variables, then the JSON secret file. Missing, empty, or placeholder
// values are a fatal configuration error, raised before any remote call.
func LoadCredentials(cfg RedditConfig) (Credentials, error) {
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		return validate(Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret})
	}

	id, secret := os.Getenv(envClientID), os.Getenv(envClientSecret)
	if id != "" && secret != "" {
		return validate(Credentials{ClientID: id, ClientSecret: secret})
	}
	if id != "" || secret != "" {
		zap.L().Warn("only one credential environment variable is set, falling back to secret file",
			zap.String("file", cfg.SecretFile),
		)
	}

	return loadSecretFile(cfg.SecretFile)
}

func loadSecretFile(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, eris.Wrapf(err, "config: read secret file %s", path)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, eris.Wrapf(err, "config: parse secret file %s", path)
	}

	return validate(creds)
}

func validate(creds Credentials) (Credentials, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Credentials{}, eris.New("config: client_id and client_secret must be non-empty")
	}
	if creds.ClientID == placeholderID || creds.ClientSecret == placeholderSecret {
		return Credentials{}, eris.New("config: credentials are still set to placeholder values")
	}
	return creds, nil
}
