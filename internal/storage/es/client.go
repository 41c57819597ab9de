// Package es implements the search-index service on Elasticsearch,
// one index per (entity type, language) pair.
package es

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

type ClientConfig struct {
	Addresses []string
	Username  string
	Password  string
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}

// IndexName maps an (entity type, language) pair onto its index.
func IndexName(entity domain.EntityType, language domain.Language) string {
	return fmt.Sprintf("%s_%s", entity, language)
}
