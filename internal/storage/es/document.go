package es

// StatuteDoc is the indexed shape of one statute. Year is declared both
// as a string (exact-match querying) and as an integer (sorting and
// ranges); both fields are kept on purpose.
type StatuteDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	YearNum     int      `json:"year_num"`
	Number      string   `json:"number"`
	HasContent  int      `json:"has_content"`
	CommonNames []string `json:"common_names"`
	Keywords    []string `json:"keywords"`
	Version     string   `json:"version"`
	Headings    []string `json:"headings"`
	Paragraphs  []string `json:"paragraphs"`
}

// JudgmentDoc is the indexed shape of one judgment. Level holds the
// published court abbreviation for the document's language.
type JudgmentDoc struct {
	ID         string   `json:"id"`
	Year       string   `json:"year"`
	YearNum    int      `json:"year_num"`
	Number     string   `json:"number"`
	Level      string   `json:"level"`
	HasContent int      `json:"has_content"`
	Keywords   []string `json:"keywords"`
	Headings   []string `json:"headings"`
	Paragraphs []string `json:"paragraphs"`
}
