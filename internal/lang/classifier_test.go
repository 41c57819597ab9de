package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoskenniemi/lakihaku/internal/lang"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want lang.Result
	}{
		{
			name: "swedish function words",
			text: "detta är en lag som gäller",
			want: lang.Swedish,
		},
		{
			name: "swedish with aring",
			text: "ålands landskapslag om ändring",
			want: lang.Swedish,
		},
		{
			name: "finnish function words and double vowels",
			text: "tämä on laki joka koskee",
			want: lang.Finnish,
		},
		{
			name: "finnish legal phrasing",
			text: "tuomioistuin voi kuitenkin päättää asiasta erikseen",
			want: lang.Finnish,
		},
		{
			name: "gibberish below threshold",
			text: "xyz 123",
			want: lang.Unknown,
		},
		{
			name: "empty input",
			text: "",
			want: lang.Unknown,
		},
		{
			name: "numbers and markup only",
			text: "§ 12 (3) [4]",
			want: lang.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lang.Classify(tt.text))
		})
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, lang.Swedish, lang.Classify("DETTA GÄLLER ENLIGT LAGEN"))
}
