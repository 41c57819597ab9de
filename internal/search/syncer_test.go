package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
	"github.com/mkoskenniemi/lakihaku/internal/storage/es"
)

type fakeStore struct {
	statutes  map[int][]domain.Statute
	judgments map[int][]domain.Judgment
	keywords  map[uuid.UUID][]string
	names     map[uuid.UUID][]string
}

var _ storage.DocumentReader = (*fakeStore)(nil)

func (f *fakeStore) StatutesByYear(_ context.Context, year int, _ domain.Language) ([]domain.Statute, error) {
	return f.statutes[year], nil
}

func (f *fakeStore) JudgmentsByYear(_ context.Context, year int, _ domain.Language) ([]domain.Judgment, error) {
	return f.judgments[year], nil
}

func (f *fakeStore) StatuteByID(_ context.Context, id uuid.UUID, _ domain.Language) (*domain.Statute, error) {
	for _, statutes := range f.statutes {
		for _, s := range statutes {
			if s.UUID == id {
				return &s, nil
			}
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) JudgmentByID(_ context.Context, id uuid.UUID, _ domain.Language) (*domain.Judgment, error) {
	for _, judgments := range f.judgments {
		for _, j := range judgments {
			if j.UUID == id {
				return &j, nil
			}
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) StatuteKeywords(_ context.Context, id uuid.UUID) ([]string, error) {
	return f.keywords[id], nil
}

func (f *fakeStore) JudgmentKeywords(_ context.Context, id uuid.UUID) ([]string, error) {
	return f.keywords[id], nil
}

func (f *fakeStore) CommonNames(_ context.Context, id uuid.UUID) ([]string, error) {
	return f.names[id], nil
}

func (f *fakeStore) StatuteYearCounts(context.Context, domain.Language) (map[int]int, error) {
	return nil, nil
}

func (f *fakeStore) JudgmentYearCounts(context.Context, domain.Language) (map[int]int, error) {
	return nil, nil
}

type fakeIndex struct {
	upserts   map[string]any
	failIDs   map[string]error
	ensureErr error
	deleted   []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{upserts: map[string]any{}, failIDs: map[string]error{}}
}

func (f *fakeIndex) EnsureIndex(context.Context, domain.EntityType, domain.Language) error {
	return f.ensureErr
}

func (f *fakeIndex) DeleteIndex(_ context.Context, entity domain.EntityType, language domain.Language) error {
	f.deleted = append(f.deleted, es.IndexName(entity, language))
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, _ domain.EntityType, _ domain.Language, id string, doc any) error {
	if err := f.failIDs[id]; err != nil {
		return err
	}
	f.upserts[id] = doc
	return nil
}

const statuteContent = `<akomaNtoso><act>
	<preface><p><docTitle>Laki esimerkeistä</docTitle></p></preface>
	<body>
		<chapter>
			<num>1 luku</num>
			<heading>Yleiset säännökset</heading>
			<content><p>Tätä lakia sovelletaan esimerkkeihin.</p></content>
		</chapter>
	</body>
</act></akomaNtoso>`

func testStatute(year int, number string) domain.Statute {
	return domain.Statute{
		UUID:     uuid.New(),
		Title:    "Laki esimerkeistä",
		Number:   number,
		Year:     year,
		Language: domain.LanguageFinnish,
		Content:  statuteContent,
	}
}

func testJudgment(year int, number string) domain.Judgment {
	return domain.Judgment{
		UUID:     uuid.New(),
		Level:    domain.LevelKKO,
		Number:   number,
		Year:     year,
		Language: domain.LanguageFinnish,
		Content:  "<h2>Perustelut</h2><p>Vaatimus hylättiin kokonaisuudessaan.</p>",
	}
}

func TestSyncStatutes(t *testing.T) {
	first := testStatute(2020, "1")
	second := testStatute(2020, "2")
	store := &fakeStore{
		statutes: map[int][]domain.Statute{2020: {first, second}},
		keywords: map[uuid.UUID][]string{first.UUID: {"Työoikeus"}},
		names:    map[uuid.UUID][]string{first.UUID: {"Esimerkkilaki"}},
	}
	index := newFakeIndex()

	result, err := NewSyncer(store, index).Sync(
		context.Background(), domain.EntityStatutes, domain.LanguageFinnish, 2019, 2021)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)
	assert.Equal(t, result.TotalProcessed, result.SuccessCount+result.FailureCount)

	doc, ok := index.upserts[first.UUID.String()].(*es.StatuteDoc)
	require.True(t, ok)
	assert.Equal(t, "2020", doc.Year)
	assert.Equal(t, 2020, doc.YearNum)
	assert.Equal(t, 1, doc.HasContent)
	assert.Equal(t, []string{"Työoikeus"}, doc.Keywords)
	assert.Equal(t, []string{"Esimerkkilaki"}, doc.CommonNames)
	assert.Equal(t, []string{"luku yleiset säännökset"}, doc.Headings)
	assert.Equal(t, []string{"lakia sovelletaan esimerkkeihin"}, doc.Paragraphs)
}

func TestSyncRecordsRowFailureAndContinues(t *testing.T) {
	first := testJudgment(2020, "1")
	second := testJudgment(2020, "2")
	third := testJudgment(2020, "3")
	store := &fakeStore{
		judgments: map[int][]domain.Judgment{2020: {first, second, third}},
	}
	index := newFakeIndex()
	index.failIDs[second.UUID.String()] = errors.New("mapping conflict")

	result, err := NewSyncer(store, index).Sync(
		context.Background(), domain.EntityJudgments, domain.LanguageFinnish, 2020, 2020)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, result.TotalProcessed, result.SuccessCount+result.FailureCount)

	require.Len(t, result.Failures, 1)
	failure := result.Failures[0]
	assert.Equal(t, second.UUID.String(), failure.ID)
	assert.Equal(t, 2020, failure.Year)
	assert.Equal(t, "2", failure.Number)
	assert.Equal(t, "kko", failure.Level)
	assert.Contains(t, failure.Error, "mapping conflict")

	assert.Contains(t, index.upserts, first.UUID.String())
	assert.Contains(t, index.upserts, third.UUID.String())
}

func TestSyncUnparsableContentIsRowFailure(t *testing.T) {
	broken := testStatute(2020, "7")
	broken.Content = "<akomaNtoso><act>"
	store := &fakeStore{statutes: map[int][]domain.Statute{2020: {broken}}}
	index := newFakeIndex()

	result, err := NewSyncer(store, index).Sync(
		context.Background(), domain.EntityStatutes, domain.LanguageFinnish, 2020, 2020)

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.FailureCount)
	assert.Empty(t, index.upserts)
}

func TestSyncSetupFailure(t *testing.T) {
	index := newFakeIndex()
	index.ensureErr = fmt.Errorf("cluster unreachable")

	result, err := NewSyncer(&fakeStore{}, index).Sync(
		context.Background(), domain.EntityStatutes, domain.LanguageFinnish, 2020, 2020)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.TotalProcessed)
}

func TestSyncJudgmentLevelDisplay(t *testing.T) {
	judgment := testJudgment(2021, "14")
	store := &fakeStore{judgments: map[int][]domain.Judgment{2021: {judgment}}}
	index := newFakeIndex()

	_, err := NewSyncer(store, index).Sync(
		context.Background(), domain.EntityJudgments, domain.LanguageFinnish, 2021, 2021)

	require.NoError(t, err)
	doc, ok := index.upserts[judgment.UUID.String()].(*es.JudgmentDoc)
	require.True(t, ok)
	assert.Equal(t, "KKO", doc.Level)
	assert.Equal(t, []string{"perustelut"}, doc.Headings)
}

func TestUpsertOneMissingRowIsSkipped(t *testing.T) {
	index := newFakeIndex()

	err := NewSyncer(&fakeStore{}, index).UpsertOne(
		context.Background(), domain.EntityStatutes, domain.LanguageFinnish, uuid.New())

	require.NoError(t, err)
	assert.Empty(t, index.upserts)
}

func TestUpsertOneIndexesStoredRow(t *testing.T) {
	statute := testStatute(2020, "9")
	store := &fakeStore{statutes: map[int][]domain.Statute{2020: {statute}}}
	index := newFakeIndex()

	err := NewSyncer(store, index).UpsertOne(
		context.Background(), domain.EntityStatutes, domain.LanguageFinnish, statute.UUID)

	require.NoError(t, err)
	assert.Contains(t, index.upserts, statute.UUID.String())
}

func TestDropCollection(t *testing.T) {
	index := newFakeIndex()

	err := NewSyncer(&fakeStore{}, index).DropCollection(
		context.Background(), domain.EntityJudgments, domain.LanguageSwedish)

	require.NoError(t, err)
	assert.Equal(t, []string{"judgments_swe"}, index.deleted)
}
