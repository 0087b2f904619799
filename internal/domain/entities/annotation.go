package entities

// KeyPhrase is a ranked phrase returned by the statistical annotator
type KeyPhrase struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Annotation is the statistical annotator's view of a transcript excerpt
type Annotation struct {
	Sentiment  SentimentLabel `json:"sentiment"`
	KeyPhrases []KeyPhrase    `json:"keyPhrases"`
}

// TopPhrases returns the text of the first n key phrases in ranking order
func (a Annotation) TopPhrases(n int) []string {
	if n > len(a.KeyPhrases) {
		n = len(a.KeyPhrases)
	}
	out := make([]string, 0, n)
	for _, kp := range a.KeyPhrases[:n] {
		out = append(out, kp.Text)
	}
	return out
}
