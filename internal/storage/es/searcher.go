package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// Searcher runs full-text queries against the per-language indices.
type Searcher struct {
	client *elasticsearch.TypedClient
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &Searcher{client: client}, nil
}

// SearchOptions carry the query-independent knobs of one search call.
// Fields are boosted field expressions ("title^50").
type SearchOptions struct {
	Fields []string
	Page   int
	Size   int
}

// SearchStatutes queries the statute index of one language. Results
// rank documents with content first, then by relevance, then newest
// first.
func (r *Searcher) SearchStatutes(ctx context.Context, language domain.Language, query string, opts SearchOptions) ([]StatuteDoc, int64, error) {
	hits, total, err := r.search(ctx, IndexName(domain.EntityStatutes, language), query, opts, nil)
	if err != nil {
		return nil, 0, err
	}

	docs := make([]StatuteDoc, 0, len(hits))
	for _, hit := range hits {
		var doc StatuteDoc
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode statute hit: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, total, nil
}

// SearchJudgments queries the judgment index of one language. A
// non-empty level restricts results to one court.
func (r *Searcher) SearchJudgments(ctx context.Context, language domain.Language, query string, level domain.CourtLevel, opts SearchOptions) ([]JudgmentDoc, int64, error) {
	var filter []types.Query
	if level != "" {
		display, err := level.Display(language)
		if err != nil {
			return nil, 0, err
		}
		filter = []types.Query{{
			Term: map[string]types.TermQuery{
				"level": {Value: display},
			},
		}}
	}

	hits, total, err := r.search(ctx, IndexName(domain.EntityJudgments, language), query, opts, filter)
	if err != nil {
		return nil, 0, err
	}

	docs := make([]JudgmentDoc, 0, len(hits))
	for _, hit := range hits {
		var doc JudgmentDoc
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode judgment hit: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, total, nil
}

func (r *Searcher) search(ctx context.Context, indexName, query string, opts SearchOptions, filter []types.Query) ([]types.Hit, int64, error) {
	multiMatch := &types.MultiMatchQuery{
		Query:     query,
		Fields:    opts.Fields,
		Fuzziness: "AUTO",
	}

	esQuery := &types.Query{MultiMatch: multiMatch}
	if len(filter) > 0 {
		esQuery = &types.Query{
			Bool: &types.BoolQuery{
				Must:   []types.Query{{MultiMatch: multiMatch}},
				Filter: filter,
			},
		}
	}

	desc := sortorder.Desc
	res, err := r.client.Search().
		Index(indexName).
		Query(esQuery).
		From((opts.Page - 1) * opts.Size).
		Size(opts.Size).
		TrackScores(true).
		Sort(
			&types.SortOptions{SortOptions: map[string]types.FieldSort{
				"has_content": {Order: &desc},
			}},
			&types.SortOptions{SortOptions: map[string]types.FieldSort{
				"_score": {Order: &desc},
			}},
			&types.SortOptions{SortOptions: map[string]types.FieldSort{
				"year_num": {Order: &desc},
			}},
		).
		Do(ctx)
	if err != nil {
		slog.Error("search query failed", "index", indexName, "error", err)
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	return res.Hits.Hits, total, nil
}
