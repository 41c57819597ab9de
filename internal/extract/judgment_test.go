package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

func TestParseJudgmentHTMLLanguageSection(t *testing.T) {
	page := `<html><body>
		<section lang="sv"><p>Svensk text</p></section>
		<section lang="fi"><p>Korkeimman oikeuden ratkaisu</p></section>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Contains(t, content.Content, "Korkeimman oikeuden ratkaisu")
	assert.NotContains(t, content.Content, "Svensk text")
	assert.False(t, content.IsEmpty)
}

func TestParseJudgmentHTMLLanguageSectionBlank(t *testing.T) {
	page := `<html><body><section lang="fi">   </section></body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.True(t, content.IsEmpty)
}

func TestParseJudgmentHTMLEmbeddedPayload(t *testing.T) {
	page := `<html><body>
		<script>self.__f.push([1,"{\"highlightableText\":\"Tämä on laki joka koskee asiaa\"}"])</script>
		<script>self.__f.push([1,"{\"highlightableText\":\"children\"},{\"highlightableText\":\"$undefined\"},{\"highlightableText\":\"ab\"}"])</script>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Equal(t, "<p>Tämä on laki joka koskee asiaa</p>", content.Content)
	assert.False(t, content.IsEmpty)
}

func TestParseJudgmentHTMLPayloadLanguageFilter(t *testing.T) {
	page := `<html><body>
		<script>"{\"highlightableText\":\"Tämä on laki joka koskee asiaa\"},{\"highlightableText\":\"Detta är en lag som gäller saken\"}"</script>
	</body></html>`

	finnish, err := ParseJudgmentHTML(page, domain.LanguageFinnish, true)
	require.NoError(t, err)
	assert.Equal(t, "<p>Tämä on laki joka koskee asiaa</p>", finnish.Content)

	swedish, err := ParseJudgmentHTML(page, domain.LanguageSwedish, true)
	require.NoError(t, err)
	assert.Equal(t, "<p>Detta är en lag som gäller saken</p>", swedish.Content)
}

func TestParseJudgmentHTMLPayloadAllFiltered(t *testing.T) {
	page := `<html><body>
		<script>"{\"highlightableText\":\"$undefined\"},{\"highlightableText\":\"className\"}"</script>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, true)

	require.NoError(t, err)
	assert.Empty(t, content.Content)
	assert.True(t, content.IsEmpty)
}

func TestParseJudgmentHTMLLegacySection(t *testing.T) {
	page := `<html><body>
		<section class="document akomaNtoso-wrapper">
			<p>Ratkaisun perustelut</p>
		</section>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Contains(t, content.Content, "Ratkaisun perustelut")
	assert.False(t, content.IsEmpty)
}

func TestParseJudgmentHTMLLegacySectionBlankParagraphs(t *testing.T) {
	page := `<html><body>
		<section class="akomaNtoso"><p>  </p><p></p></section>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.True(t, content.IsEmpty)
}

func TestParseJudgmentHTMLNothingFound(t *testing.T) {
	content, err := ParseJudgmentHTML(`<html><body><p>hello</p></body></html>`, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Empty(t, content.Content)
	assert.True(t, content.IsEmpty)
}

func TestSidebarKeywordsDivShape(t *testing.T) {
	page := `<html><body>
		<dl>
			<dt>Asiasanat</dt>
			<dd><div>
				<div>Vahingonkorvaus</div>
				<div>Sopimusoikeus</div>
			</div></dd>
		</dl>
		<section lang="fi"><p>x y z w</p></section>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"Vahingonkorvaus", "Sopimusoikeus"}, content.Keywords)
}

func TestSidebarKeywordsSpanShape(t *testing.T) {
	page := `<html><body>
		<dl>
			<dt>Ämnesord</dt>
			<dd><div>
				<span><span>Skadestånd</span><span>extra</span></span>
				<span><span>Avtalsrätt</span></span>
			</div></dd>
		</dl>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageSwedish, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"Skadestånd", "Avtalsrätt"}, content.Keywords)
}

func TestSidebarKeywordsWrongLabel(t *testing.T) {
	page := `<html><body>
		<dl><dt>Muut tiedot</dt><dd><div><div>ei</div></div></dd></dl>
	</body></html>`

	content, err := ParseJudgmentHTML(page, domain.LanguageFinnish, false)

	require.NoError(t, err)
	assert.Empty(t, content.Keywords)
}

func TestHTMLHeadings(t *testing.T) {
	headings, err := HTMLHeadings(`<html><body>
		<h1>Ratkaisu</h1>
		<h2>Perustelut</h2>
		<h3>Sovelletut säännökset</h3>
		<h2>Lopputulos</h2>
		<h1>Eri mieltä olevan jäsenen lausunto</h1>
	</body></html>`)

	require.NoError(t, err)
	assert.Equal(t, []domain.Heading{
		{
			Name: "Ratkaisu",
			Children: []domain.Heading{
				{
					Name: "Perustelut",
					Children: []domain.Heading{
						{Name: "Sovelletut säännökset"},
					},
				},
				{Name: "Lopputulos"},
			},
		},
		{Name: "Eri mieltä olevan jäsenen lausunto"},
	}, headings)
}

func TestHTMLParagraphs(t *testing.T) {
	paragraphs, err := HTMLParagraphs(`<div><p>eka kappale</p><p>  </p><p>toka kappale</p></div>`)

	require.NoError(t, err)
	assert.Equal(t, []string{"eka kappale", "toka kappale"}, paragraphs)
}
