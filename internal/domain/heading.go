package domain

// Heading is one node of a document's heading tree.
type Heading struct {
	Name     string    `json:"name"`
	Children []Heading `json:"content,omitempty"`
}

// FlattenHeadings walks a heading tree depth-first and returns the
// heading strings in document order.
func FlattenHeadings(headings []Heading) []string {
	var out []string
	var recurse func([]Heading)
	recurse = func(hs []Heading) {
		for _, h := range hs {
			out = append(out, h.Name)
			if len(h.Children) > 0 {
				recurse(h.Children)
			}
		}
	}
	recurse(headings)
	return out
}
