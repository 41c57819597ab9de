// Package ingest crawls the Finlex open-data source and persists what
// it finds. Crawling is strictly sequential; the shared fetcher allows
// one request in flight at a time.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/extract"
	"github.com/mkoskenniemi/lakihaku/internal/fetch"
	"github.com/mkoskenniemi/lakihaku/internal/finlex"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
)

// Getter is the fetching dependency, satisfied by fetch.Fetcher.
type Getter interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error)
}

// Lister locates candidate documents, satisfied by finlex.Locator.
type Lister interface {
	ListStatuteURIs(ctx context.Context, year int, language domain.Language) ([]string, error)
	ListJudgmentURLs(ctx context.Context, year int, language domain.Language, level domain.CourtLevel) ([]string, error)
	StatuteURIs(key domain.StatuteKey) (primary, fallback string)
	JudgmentURL(key domain.JudgmentKey) (string, error)
}

var (
	xmlHeaders   = map[string]string{"Accept": "application/xml"}
	htmlHeaders  = map[string]string{"Accept": "text/html"}
	imageHeaders = map[string]string{"Accept": "image/*"}
)

// Orchestrator drives document ingestion. Not-found and empty documents
// are normal crawl conditions and never surface as errors; only
// persistence failures do.
type Orchestrator struct {
	fetcher Getter
	locator Lister
	store   storage.DocumentStore
	apiBase string

	images sync.WaitGroup
}

type Option func(*Orchestrator)

// WithAPIBaseURL overrides the open-data base used for image fetches.
func WithAPIBaseURL(base string) Option {
	return func(o *Orchestrator) { o.apiBase = base }
}

func NewOrchestrator(fetcher Getter, locator Lister, store storage.DocumentStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher: fetcher,
		locator: locator,
		store:   store,
		apiBase: finlex.DefaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IngestStatute fetches, extracts and persists one statute edition. The
// fallback URI is tried only when the primary fetch fails; if both
// fail, or extraction fails, the statute is skipped without error.
// Referenced images are fetched in the background and never block the
// crawl.
func (o *Orchestrator) IngestStatute(ctx context.Context, key domain.StatuteKey) error {
	primary, fallback := o.locator.StatuteURIs(key)

	resp, err := o.fetcher.Fetch(ctx, primary, xmlHeaders)
	if err != nil {
		slog.Warn("primary statute fetch failed, trying fallback", "key", key, "error", err)
		resp, err = o.fetcher.Fetch(ctx, fallback, xmlHeaders)
	}
	if err != nil {
		slog.Warn("statute unavailable, skipping", "key", key, "error", err)
		return nil
	}

	content := string(resp.Body)
	parsed, err := extract.ParseStatuteXML(content)
	if err != nil {
		slog.Warn("statute extraction failed, skipping", "key", key, "error", err)
		return nil
	}

	statuteUUID, err := o.store.SaveStatute(ctx, domain.Statute{
		Title:    parsed.Title,
		Number:   key.Number,
		Year:     key.Year,
		Language: key.Language,
		Version:  key.Version,
		Content:  content,
		IsEmpty:  parsed.IsEmpty,
	})
	if err != nil {
		return fmt.Errorf("failed to persist statute %s: %w", key, err)
	}

	for _, kw := range parsed.Keywords {
		if _, err := o.store.SaveStatuteKeyword(ctx, domain.StatuteKeyword{
			ID:          kw.ID,
			Keyword:     kw.Name,
			StatuteUUID: statuteUUID,
			Language:    key.Language,
		}); err != nil {
			return fmt.Errorf("failed to persist statute keyword %q: %w", kw.ID, err)
		}
	}

	for _, name := range parsed.CommonNames {
		if _, err := o.store.SaveCommonName(ctx, domain.CommonName{
			Name:        name,
			StatuteUUID: statuteUUID,
		}); err != nil {
			return fmt.Errorf("failed to persist common name %q: %w", name, err)
		}
	}

	for _, src := range parsed.Images {
		o.scheduleImage(ctx, statuteUUID, key, src)
	}

	slog.Info("statute ingested", "key", key, "uuid", statuteUUID, "empty", parsed.IsEmpty)
	return nil
}

// scheduleImage fetches one referenced image in the background. The
// fetch outlives the caller's context on purpose; failures are logged
// and swallowed.
func (o *Orchestrator) scheduleImage(ctx context.Context, statuteUUID uuid.UUID, key domain.StatuteKey, src string) {
	bg := context.WithoutCancel(ctx)
	o.images.Add(1)
	go func() {
		defer o.images.Done()
		o.fetchImage(bg, statuteUUID, key, src)
	}()
}

func (o *Orchestrator) fetchImage(ctx context.Context, statuteUUID uuid.UUID, key domain.StatuteKey, src string) {
	url := fmt.Sprintf("%s/akn/fi/act/statute-consolidated/%d/%s/%s@%s/%s",
		o.apiBase, key.Year, key.Number, key.Language, key.Version, src)

	resp, err := o.fetcher.Fetch(ctx, url, imageHeaders)
	if err != nil {
		slog.Error("failed to fetch statute image", "url", url, "error", err)
		return
	}

	name := path.Base(src)
	if name == "." || name == "/" {
		slog.Error("image source has no file name", "src", src)
		return
	}

	imageUUID, err := o.store.SaveImage(ctx, domain.Image{
		Name:     name,
		MimeType: resp.Header.Get("Content-Type"),
		Content:  resp.Body,
	})
	if err != nil {
		slog.Error("failed to persist statute image", "url", url, "error", err)
		return
	}

	if err := o.store.MapImageToStatute(ctx, statuteUUID, imageUUID); err != nil {
		slog.Error("failed to map image to statute", "statute", statuteUUID, "image", imageUUID, "error", err)
	}
}

// WaitImages blocks until all background image fetches have finished.
func (o *Orchestrator) WaitImages() {
	o.images.Wait()
}

// IngestJudgment fetches, extracts and persists one judgment by its
// page URL. Court level and language come from the URL path. Fetch and
// extraction failures skip the document without error; keyword ids are
// re-sequenced on every ingestion.
func (o *Orchestrator) IngestJudgment(ctx context.Context, rawURL string) error {
	key, err := finlex.ParseJudgmentURL(rawURL)
	if err != nil {
		return err
	}

	resp, err := o.fetcher.Fetch(ctx, rawURL, htmlHeaders)
	if err != nil {
		slog.Warn("judgment unavailable, skipping", "url", rawURL, "error", err)
		return nil
	}

	parsed, err := extract.ParseJudgmentHTML(string(resp.Body), key.Language, true)
	if err != nil {
		slog.Warn("judgment extraction failed, skipping", "url", rawURL, "error", err)
		return nil
	}

	judgmentUUID, err := o.store.SaveJudgment(ctx, domain.Judgment{
		Level:    key.Level,
		Number:   key.Number,
		Year:     key.Year,
		Language: key.Language,
		Content:  parsed.Content,
		IsEmpty:  parsed.IsEmpty,
	})
	if err != nil {
		return fmt.Errorf("failed to persist judgment %s: %w", key, err)
	}

	if err := o.store.DeleteJudgmentKeywords(ctx, judgmentUUID); err != nil {
		return err
	}
	for i, keyword := range parsed.Keywords {
		id := fmt.Sprintf("%s:%d:%s-%d", key.Level, key.Year, key.Number, i+1)
		if _, err := o.store.SaveJudgmentKeyword(ctx, domain.JudgmentKeyword{
			ID:           id,
			Keyword:      keyword,
			JudgmentUUID: judgmentUUID,
			Language:     key.Language,
		}); err != nil {
			return fmt.Errorf("failed to persist judgment keyword %q: %w", id, err)
		}
	}

	slog.Info("judgment ingested", "key", key, "uuid", judgmentUUID, "empty", parsed.IsEmpty)
	return nil
}

// MissingRanges lists the years that need a full crawl, per entity
// type.
type MissingRanges struct {
	StatuteYears  []int
	JudgmentYears []int
	UpToDate      bool
}

// ComputeMissingRanges finds the years in [yearFrom, yearTo] with no
// stored documents for at least one language. Such years have never
// been crawled completely.
func (o *Orchestrator) ComputeMissingRanges(ctx context.Context, yearFrom, yearTo int) (*MissingRanges, error) {
	statuteYears, err := o.missingYears(ctx, yearFrom, yearTo, o.store.StatuteYearCounts)
	if err != nil {
		return nil, err
	}
	judgmentYears, err := o.missingYears(ctx, yearFrom, yearTo, o.store.JudgmentYearCounts)
	if err != nil {
		return nil, err
	}

	return &MissingRanges{
		StatuteYears:  statuteYears,
		JudgmentYears: judgmentYears,
		UpToDate:      len(statuteYears) == 0 && len(judgmentYears) == 0,
	}, nil
}

func (o *Orchestrator) missingYears(ctx context.Context, yearFrom, yearTo int, counts func(context.Context, domain.Language) (map[int]int, error)) ([]int, error) {
	finnish, err := counts(ctx, domain.LanguageFinnish)
	if err != nil {
		return nil, err
	}
	swedish, err := counts(ctx, domain.LanguageSwedish)
	if err != nil {
		return nil, err
	}

	var missing []int
	for year := yearFrom; year <= yearTo; year++ {
		if finnish[year] == 0 || swedish[year] == 0 {
			missing = append(missing, year)
		}
	}
	return missing, nil
}

// FillMissing crawls every missing year sequentially, both languages
// and, for judgments, both courts. One document's failure never stops
// the crawl; listing failures skip that year and language.
func (o *Orchestrator) FillMissing(ctx context.Context, statuteYears, judgmentYears []int) {
	for _, year := range statuteYears {
		for _, language := range domain.ValidLanguages {
			uris, err := o.locator.ListStatuteURIs(ctx, year, language)
			if err != nil {
				slog.Error("failed to list statutes", "year", year, "language", language, "error", err)
				continue
			}
			slog.Info("crawling statutes", "year", year, "language", language, "count", len(uris))

			for _, uri := range uris {
				key, err := finlex.ParseStatuteURL(uri)
				if err != nil {
					slog.Error("skipping malformed statute uri", "uri", uri, "error", err)
					continue
				}
				if err := o.IngestStatute(ctx, key); err != nil {
					slog.Error("failed to ingest statute", "key", key, "error", err)
				}
			}
		}
	}

	for _, year := range judgmentYears {
		for _, language := range domain.ValidLanguages {
			for _, level := range domain.ValidLevels {
				urls, err := o.locator.ListJudgmentURLs(ctx, year, language, level)
				if err != nil {
					slog.Error("failed to list judgments",
						"year", year, "language", language, "level", level, "error", err)
					continue
				}
				slog.Info("crawling judgments",
					"year", year, "language", language, "level", level, "count", len(urls))

				for _, url := range urls {
					if err := o.IngestJudgment(ctx, url); err != nil {
						slog.Error("failed to ingest judgment", "url", url, "error", err)
					}
				}
			}
		}
	}
}
