package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/textnorm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		lang domain.Language
		want string
	}{
		{
			name: "lowercases and strips punctuation",
			in:   "Rikoslaki (39/1889), Ensimmäinen Luku.",
			lang: domain.LanguageFinnish,
			want: "rikoslaki 1889 ensimmäinen luku",
		},
		{
			name: "drops short tokens",
			in:   "lain 1 § 2 mom nojalla",
			lang: domain.LanguageFinnish,
			want: "lain nojalla",
		},
		{
			name: "removes finnish stop words",
			in:   "säädetään että viranomainen myös päättää",
			lang: domain.LanguageFinnish,
			want: "säädetään viranomainen päättää",
		},
		{
			name: "removes swedish stop words",
			in:   "denna lag gäller enligt vilket stadgas",
			lang: domain.LanguageSwedish,
			want: "gäller stadgas",
		},
		{
			name: "empty input",
			in:   "",
			lang: domain.LanguageFinnish,
			want: "",
		},
		{
			name: "punctuation only",
			in:   "---, ...; §§",
			lang: domain.LanguageSwedish,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Normalize(tt.in, tt.lang))
		})
	}
}

func TestNormalizeAllDropsEmptied(t *testing.T) {
	in := []string{"Ensimmäinen Luku", "1 §", "Toinen Luku"}
	got := textnorm.NormalizeAll(in, domain.LanguageFinnish)

	assert.Equal(t, []string{"ensimmäinen luku", "toinen luku"}, got)
}
