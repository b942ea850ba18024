package domain

import "strings"

// Confidence is the model's self-reported certainty.
type Confidence string

const (
	ConfidenceLow    Confidence = "Baja"
	ConfidenceMedium Confidence = "Media"
	ConfidenceHigh   Confidence = "Alta"
)

// ParseConfidence maps the model's wording onto the ordinal scale; unknown values are Low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high":
		return ConfidenceHigh
	case "media", "medium":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ClassificationDetails carries the explanation part of a classification.
type ClassificationDetails struct {
	Confidence Confidence `json:"confidence"`
	ObjectName string     `json:"objectName"`
	Reason     string     `json:"reason"`
}

// ClassificationResult is the outcome of classifying one photographed item.
type ClassificationResult struct {
	Container string                `json:"container"`
	Details   ClassificationDetails `json:"details"`
}

// QuizItem is one generated (or pre-authored) waste item for a quiz question.
type QuizItem struct {
	Name          string `json:"name"`
	Container     string `json:"container"`
	Justification string `json:"justification"`
	ImagePrompt   string `json:"imagePrompt"`
}

// QuizQuestion is what the player sees: an image and the hidden answer.
type QuizQuestion struct {
	ImageURL         string `json:"imageUrl"`
	WasteName        string `json:"wasteName"`
	CorrectContainer string `json:"correctContainer"`
	Justification    string `json:"justification"`
}

// Tip is a short recycling tip.
type Tip struct {
	Text string `json:"tip"`
}
