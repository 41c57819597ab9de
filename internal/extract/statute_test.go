package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

const statuteXML = `<akomaNtoso xmlns="http://docs.oasis-open.org/legaldocml/ns/akn/3.0">
  <act>
    <meta>
      <classification source="#finlex">
        <keyword value="finlex:luokitus/tyo001" showAs="Työoikeus"/>
        <keyword value="finlex:luokitus/ymp042" showAs="Ympäristö"/>
      </classification>
      <commonName>Esimerkkilaki</commonName>
    </meta>
    <preface>
      <p><docTitle>Laki esimerkeistä</docTitle></p>
    </preface>
    <body>
      <chapter>
        <num>1 luku</num>
        <heading>Yleiset säännökset</heading>
        <section>
          <num>1 §</num>
          <heading>Soveltamisala</heading>
          <content>
            <p>Tätä lakia sovelletaan esimerkkeihin.</p>
            <p>Lakia sovelletaan myös muihin tapauksiin.</p>
          </content>
        </section>
      </chapter>
      <chapter>
        <num>2 luku</num>
        <heading>Erinäiset säännökset</heading>
      </chapter>
    </body>
    <attachments>
      <img src="kuva1.png"/>
      <img src="liitteet/kuva2.png"/>
    </attachments>
  </act>
</akomaNtoso>`

func TestParseStatuteXML(t *testing.T) {
	content, err := ParseStatuteXML(statuteXML)

	require.NoError(t, err)
	assert.Equal(t, "Laki esimerkeistä", content.Title)
	assert.Equal(t, []string{"kuva1.png", "liitteet/kuva2.png"}, content.Images)
	assert.Equal(t, []Keyword{
		{ID: "o001", Name: "Työoikeus"},
		{ID: "p042", Name: "Ympäristö"},
	}, content.Keywords)
	assert.Equal(t, []string{"Esimerkkilaki"}, content.CommonNames)
	assert.False(t, content.IsEmpty)
}

func TestParseStatuteXMLMissingTitle(t *testing.T) {
	_, err := ParseStatuteXML(`<akomaNtoso><act><preface><p>no title here</p></preface></act></akomaNtoso>`)

	var extractErr *apperr.ExtractError
	require.ErrorAs(t, err, &extractErr)
}

func TestParseStatuteXMLDecreeTitle(t *testing.T) {
	content, err := ParseStatuteXML(`<akomaNtoso><decree><preface><docTitle>Asetus esimerkeistä</docTitle></preface></decree></akomaNtoso>`)

	require.NoError(t, err)
	assert.Equal(t, "Asetus esimerkeistä", content.Title)
}

func TestParseStatuteXMLUnparsable(t *testing.T) {
	_, err := ParseStatuteXML(`<akomaNtoso><act>`)
	assert.Error(t, err)
}

func TestContentAbsentMarker(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want bool
	}{
		{
			name: "single marked container",
			xml: `<akomaNtoso><act><preface><docTitle>Laki</docTitle></preface>
				<body><hcontainer name="contentAbsent"/></body></act></akomaNtoso>`,
			want: true,
		},
		{
			name: "container list with one marked",
			xml: `<akomaNtoso><act><preface><docTitle>Laki</docTitle></preface>
				<body><hcontainer name="other"/><hcontainer name="contentAbsent"/></body></act></akomaNtoso>`,
			want: true,
		},
		{
			name: "no marker",
			xml: `<akomaNtoso><act><preface><docTitle>Laki</docTitle></preface>
				<body><hcontainer name="other"/></body></act></akomaNtoso>`,
			want: false,
		},
		{
			name: "no body",
			xml:  `<akomaNtoso><act><preface><docTitle>Laki</docTitle></preface></act></akomaNtoso>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := ParseStatuteXML(tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.want, content.IsEmpty)
		})
	}
}

func TestXMLHeadings(t *testing.T) {
	headings, err := XMLHeadings(statuteXML)

	require.NoError(t, err)
	assert.Equal(t, []domain.Heading{
		{
			Name: "1 luku Yleiset säännökset",
			Children: []domain.Heading{
				{Name: "1 § Soveltamisala"},
			},
		},
		{Name: "2 luku Erinäiset säännökset"},
	}, headings)
}

func TestXMLParagraphs(t *testing.T) {
	paragraphs, err := XMLParagraphs(statuteXML)

	require.NoError(t, err)
	assert.Contains(t, paragraphs, "Tätä lakia sovelletaan esimerkkeihin.")
	assert.Contains(t, paragraphs, "Lakia sovelletaan myös muihin tapauksiin.")
}
