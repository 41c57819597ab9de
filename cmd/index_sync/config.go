package main

import (
	"strings"
	"time"

	"github.com/mkoskenniemi/lakihaku/pkg/config/env"
)

type SyncConfig struct {
	PgURI       string
	EsAddresses []string
	EsUsername  string
	EsPassword  string
	StartYear   int
	EndYear     int
}

func LoadSyncConfig() (*SyncConfig, error) {
	pgURI, err := env.Require("PG_URI")
	if err != nil {
		return nil, err
	}
	esURL, err := env.Require("ELASTICSEARCH_URL")
	if err != nil {
		return nil, err
	}

	var addresses []string
	for _, addr := range strings.Split(esURL, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}

	startYear, err := env.IntOr("START_YEAR", 1980)
	if err != nil {
		return nil, err
	}
	endYear, err := env.IntOr("END_YEAR", time.Now().Year())
	if err != nil {
		return nil, err
	}

	return &SyncConfig{
		PgURI:       pgURI,
		EsAddresses: addresses,
		EsUsername:  env.StringOr("ELASTICSEARCH_USERNAME", ""),
		EsPassword:  env.StringOr("ELASTICSEARCH_PASSWORD", ""),
		StartYear:   startYear,
		EndYear:     endYear,
	}, nil
}
