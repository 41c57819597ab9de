package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// StatuteKey identifies one edition of a statute in the Finlex corpus.
// Version is the consolidation version suffix after '@' in the document
// URI; empty means "latest".
type StatuteKey struct {
	Year     int
	Number   string
	Language Language
	Version  string
}

func (k StatuteKey) String() string {
	return fmt.Sprintf("%d/%s/%s@%s", k.Year, k.Number, k.Language, k.Version)
}

// Statute is a stored statute edition. Content holds the raw Akoma Ntoso
// XML as fetched. UUID is minted at persistence time and is the canonical
// id used downstream (index id, keyword foreign key).
type Statute struct {
	UUID     uuid.UUID `json:"uuid"`
	Title    string    `json:"title"`
	Number   string    `json:"number"`
	Year     int       `json:"year"`
	Language Language  `json:"language"`
	Version  string    `json:"version,omitempty"`
	Content  string    `json:"content,omitempty"`
	IsEmpty  bool      `json:"isEmpty"`
}

// StatuteKeyword pairs a classification keyword with a statute. ID is the
// trailing fixed-width suffix of the source's classification code; it is
// only unique within one statute.
type StatuteKeyword struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	StatuteUUID uuid.UUID `json:"statuteUuid"`
	Language    Language  `json:"language"`
}

// CommonName is a colloquial name for a statute ("common name" elements
// in the source XML).
type CommonName struct {
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"commonName"`
	StatuteUUID uuid.UUID `json:"statuteUuid"`
}

// Image is embedded statute artwork, fetched best-effort after the
// statute itself is persisted.
type Image struct {
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	MimeType string    `json:"mimeType"`
	Content  []byte    `json:"-"`
}
