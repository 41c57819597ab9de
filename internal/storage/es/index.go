package es

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

const (
	upsertMaxAttempts = 10
	upsertRetryStep   = time.Second
)

// Index wraps the typed client with the collection-per-(entity,
// language) model.
type Index struct {
	client *elasticsearch.TypedClient
	sleep  func(context.Context, time.Duration) error
}

func NewIndex(config ClientConfig) (*Index, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &Index{client: client, sleep: sleepCtx}, nil
}

// analyzers maps document languages onto the index's built-in language
// analyzers, the locale hint of each text field.
var analyzers = map[domain.Language]string{
	domain.LanguageFinnish: "finnish",
	domain.LanguageSwedish: "swedish",
}

// EnsureIndex creates the index for an (entity, language) pair if it is
// missing. An existing index is left untouched.
func (i *Index) EnsureIndex(ctx context.Context, entity domain.EntityType, language domain.Language) error {
	name := IndexName(entity, language)

	exists, err := i.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		return nil
	}

	mappings, err := indexMappings(entity, language)
	if err != nil {
		return err
	}

	createRes, err := i.client.Indices.Create(name).
		Mappings(mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("creation of index %s was not acknowledged", name)
	}

	slog.Info("index created", "index", name)
	return nil
}

func indexMappings(entity domain.EntityType, language domain.Language) (*types.TypeMapping, error) {
	analyzer := analyzers[language]

	shared := map[string]types.Property{
		"id":          types.NewKeywordProperty(),
		"year":        types.NewKeywordProperty(),
		"year_num":    types.NewIntegerNumberProperty(),
		"number":      types.NewKeywordProperty(),
		"has_content": types.NewIntegerNumberProperty(),
		"keywords":    textProperty(analyzer),
		"headings":    textProperty(analyzer),
		"paragraphs":  textProperty(analyzer),
	}

	switch entity {
	case domain.EntityStatutes:
		shared["title"] = textProperty(analyzer)
		shared["common_names"] = textProperty(analyzer)
		shared["version"] = types.NewKeywordProperty()
	case domain.EntityJudgments:
		shared["level"] = types.NewKeywordProperty()
	default:
		return nil, fmt.Errorf("unsupported entity type %q", entity)
	}

	return &types.TypeMapping{Properties: shared}, nil
}

func textProperty(analyzer string) types.Property {
	prop := types.NewTextProperty()
	if analyzer != "" {
		prop.Analyzer = &analyzer
	}
	return prop
}

// DeleteIndex drops the index for an (entity, language) pair. A missing
// index is not an error.
func (i *Index) DeleteIndex(ctx context.Context, entity domain.EntityType, language domain.Language) error {
	name := IndexName(entity, language)

	exists, err := i.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if !exists {
		slog.Info("index does not exist", "index", name)
		return nil
	}

	deleteRes, err := i.client.Indices.Delete(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", name, err)
	}
	if !deleteRes.Acknowledged {
		return fmt.Errorf("deletion of index %s was not acknowledged", name)
	}

	slog.Info("index deleted", "index", name)
	return nil
}

// Upsert writes one document by id, replacing any existing one. A
// temporarily unavailable index service is retried with a linearly
// growing delay, one second more per attempt; other failures surface
// immediately.
func (i *Index) Upsert(ctx context.Context, entity domain.EntityType, language domain.Language, id string, doc any) error {
	name := IndexName(entity, language)

	for attempt := 1; attempt <= upsertMaxAttempts; attempt++ {
		_, err := i.client.Index(name).Id(id).Document(doc).Do(ctx)
		if err == nil {
			return nil
		}
		if !isUnavailable(err) {
			return fmt.Errorf("failed to upsert document %s: %w", id, err)
		}

		delay := time.Duration(attempt) * upsertRetryStep
		slog.Warn("index service unavailable, retrying",
			"index", name, "id", id, "attempt", attempt, "delay", delay)
		if err := i.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("failed to upsert document %s: index service unavailable after %d attempts", id, upsertMaxAttempts)
}

// isUnavailable reports whether the index service answered busy, either
// overloaded (503) or throttling (429).
func isUnavailable(err error) bool {
	var esErr *types.ElasticsearchError
	if errors.As(err, &esErr) {
		return busyStatus(esErr.Status)
	}
	var esVal types.ElasticsearchError
	if errors.As(err, &esVal) {
		return busyStatus(esVal.Status)
	}
	return false
}

func busyStatus(status int) bool {
	return status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
