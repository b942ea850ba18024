package domain

// FallbackPool holds the pre-authored content used when the text model fails.
type FallbackPool struct {
	Items []QuizItem `json:"items"`
	Tips  []string   `json:"tips"`
}
