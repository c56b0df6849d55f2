package domain

// ResultItem is one ranked search hit, enriched for display.
type ResultItem struct {
	// Label is the embedding key, unique within a deduplicated result set.
	Label string `json:"label"`
	// Count is the occurrence count of the key in the training corpus.
	Count int `json:"count"`
	// Title is the human-readable citation, or the raw key for non-articles.
	Title string `json:"title"`
	// Similarity is the cosine similarity in [-1, 1], the sole sort key.
	Similarity float64 `json:"similarity"`
	// Description is free text from the metadata record, empty otherwise.
	Description string `json:"description"`
	// Vector is the raw document vector of the key.
	Vector []float32 `json:"vector"`
}

// InputItem records, for diagnostics, which vector a query term resolved to.
type InputItem struct {
	// Label is the resolved token, or "[outline]" for the inferred outline.
	Label  string    `json:"label"`
	Vector []float32 `json:"vector"`
}

// Envelope is the response of every search operation. It is always well
// formed: failures set OK to false and explain themselves in Message.
type Envelope struct {
	// Message holds human-readable status and diagnostic lines; the summary
	// line comes first.
	Message []string `json:"message"`
	// Data holds ranked results, or null when no search was performed.
	Data []ResultItem `json:"data"`
	// Input records the vector actually used for each query term.
	Input []InputItem `json:"input"`
	// OK reports whether the query succeeded.
	OK bool `json:"rc"`
}

// NewEnvelope creates an empty envelope with non-nil message and input lists.
func NewEnvelope() *Envelope {
	return &Envelope{Message: []string{}, Input: []InputItem{}}
}

// AddMessage appends a diagnostic line.
func (e *Envelope) AddMessage(msg string) {
	e.Message = append(e.Message, msg)
}

// PrependMessage inserts the summary line at the front.
func (e *Envelope) PrependMessage(msg string) {
	e.Message = append([]string{msg}, e.Message...)
}

// AddInput records a resolved query term.
func (e *Envelope) AddInput(label string, vector []float32) {
	e.Input = append(e.Input, InputItem{Label: label, Vector: vector})
}
