package main

import (
	"github.com/rotisserie/eris"

	"github.com/threadlens/threadlens/internal/config"
	"github.com/threadlens/threadlens/internal/reddit"
	"github.com/threadlens/threadlens/internal/store"
	"github.com/threadlens/threadlens/pkg/ollama"
)

// initStore builds the dump store named by config.
func initStore() (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "json", "":
		return store.NewJSON(cfg.Store.Dir)
	default:
		return nil, eris.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// initReddit resolves credentials and builds the API client.
func initReddit() (*reddit.Client, error) {
	creds, err := config.LoadCredentials(cfg.Reddit)
	if err != nil {
		return nil, err
	}
	return reddit.NewClient(reddit.Config{
		ClientID:          creds.ClientID,
		ClientSecret:      creds.ClientSecret,
		UserAgent:         cfg.Reddit.UserAgent,
		RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
	}), nil
}

func initOllama() ollama.Client {
	return ollama.NewClient(
		ollama.WithBaseURL(cfg.Ollama.URL),
		ollama.WithModel(cfg.Ollama.Model),
	)
}
