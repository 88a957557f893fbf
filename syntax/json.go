package syntax

import "encoding/json"

type jsonElement struct {
	Kind        string            `json:"kind"`
	Span        *jsonSpan         `json:"span,omitempty"`
	Text        string            `json:"text,omitempty"`
	Missing     bool              `json:"missing,omitempty"`
	Leading     []*jsonElement    `json:"leading,omitempty"`
	Trailing    []*jsonElement    `json:"trailing,omitempty"`
	Structure   *jsonElement      `json:"structure,omitempty"`
	Diagnostics []jsonDiagnostic  `json:"diagnostics,omitempty"`
	Annotations []*jsonAnnotation `json:"annotations,omitempty"`
	Children    []*jsonElement    `json:"children,omitempty"`
}

type jsonSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonDiagnostic struct {
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type jsonAnnotation struct {
	ID   uint64 `json:"id"`
	Kind string `json:"kind"`
	Data string `json:"data,omitempty"`
}

// MarshalJSON encodes the subtree with absolute spans. Diagnostics keep
// the offsets they have on their own element.
func (n *SyntaxNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (t SyntaxToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

func (n *SyntaxNode) toJSON() *jsonElement {
	je := newJSONElement(n.green, n.position)
	for c := range n.childSeq() {
		if c.IsNode() {
			je.Children = append(je.Children, c.node.toJSON())
		} else {
			je.Children = append(je.Children, c.token.toJSON())
		}
	}
	return je
}

func (t SyntaxToken) toJSON() *jsonElement {
	je := newJSONElement(t.green, t.position)
	je.Text = t.green.text
	je.Missing = t.green.IsMissing()
	for _, tr := range t.LeadingTrivia() {
		je.Leading = append(je.Leading, tr.toJSON())
	}
	for _, tr := range t.TrailingTrivia() {
		je.Trailing = append(je.Trailing, tr.toJSON())
	}
	return je
}

func (t SyntaxTrivia) toJSON() *jsonElement {
	je := newJSONElement(t.green, t.position)
	if s := t.Structure(); s != nil {
		je.Structure = s.toJSON()
	} else {
		je.Text = t.green.text
	}
	return je
}

func newJSONElement(g *GreenNode, position int) *jsonElement {
	je := &jsonElement{
		Kind: g.kind.String(),
		Span: &jsonSpan{Start: position, End: position + g.fullWidth},
	}
	for _, d := range g.diagnostics {
		je.Diagnostics = append(je.Diagnostics, jsonDiagnostic{
			Offset:   d.Offset,
			Length:   d.Length,
			Severity: d.Severity.String(),
			Message:  d.Message,
		})
	}
	for _, a := range g.annotations {
		je.Annotations = append(je.Annotations, &jsonAnnotation{ID: a.id, Kind: a.kind, Data: a.data})
	}
	return je
}
