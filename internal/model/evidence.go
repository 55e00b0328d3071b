package model

// EvidenceKind discriminates how an evidence item is delivered to the model.
type EvidenceKind string

const (
	// EvidenceDocument is an inline base64-encoded document blob (pitch deck PDF).
	EvidenceDocument EvidenceKind = "document"
	// EvidenceImageURL is a URL to a pre-rendered page image.
	EvidenceImageURL EvidenceKind = "image_url"
)

// Evidence is a single page reference presented to the generative backend.
type Evidence struct {
	Kind EvidenceKind `json:"kind"`
	// Data holds the base64 payload for EvidenceDocument.
	Data string `json:"data,omitempty"`
	// URL holds the image location for EvidenceImageURL.
	URL string `json:"url,omitempty"`
	// Name is the original file name, when known.
	Name string `json:"name,omitempty"`
}

// EvidenceList is an ordered, non-empty set of page references. Ordering is
// preserved from the request; each pipeline stage caps how many items it
// forwards per call.
type EvidenceList []Evidence

// Cap returns the first n items, or the full list when it is shorter.
func (e EvidenceList) Cap(n int) EvidenceList {
	if n <= 0 || len(e) <= n {
		return e
	}
	return e[:n]
}
