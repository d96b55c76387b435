package core

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// FeatureNames is the feature schema the classifier was trained on.
// Order matters: reordering silently invalidates a trained model.
var FeatureNames = []string{
	"url_length",
	"num_dots",
	"has_https",
	"has_at",
	"num_hyphens",
	"num_digits",
	"has_ip",
	"suspicious_words",
}

// FeatureVector is the fixed numeric summary of a URL
type FeatureVector struct {
	URLLength       int `json:"url_length"`
	NumDots         int `json:"num_dots"`
	HasHTTPS        int `json:"has_https"`
	HasAt           int `json:"has_at"`
	NumHyphens      int `json:"num_hyphens"`
	NumDigits       int `json:"num_digits"`
	HasIP           int `json:"has_ip"`
	SuspiciousWords int `json:"suspicious_words"`
}

// Values returns the features in FeatureNames order
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.URLLength),
		float64(f.NumDots),
		float64(f.HasHTTPS),
		float64(f.HasAt),
		float64(f.NumHyphens),
		float64(f.NumDigits),
		float64(f.HasIP),
		float64(f.SuspiciousWords),
	}
}

// Label is the final verdict shown to the user
type Label string

const (
	LabelLegitimate      Label = "Legitimate"
	LabelPhishing        Label = "Phishing"
	LabelUnableToAnalyze Label = "Unable to Analyze"
)

// InputType tells which entry point produced a result
type InputType string

const (
	InputURL   InputType = "url"
	InputEmail InputType = "email"
)

// Confidence is a percentage in [0, 100], or N/A when nothing was analyzed
type Confidence struct {
	value float64
	known bool
}

// Percent returns a known confidence
func Percent(v float64) Confidence {
	return Confidence{value: v, known: true}
}

// NotApplicable returns the N/A confidence
func NotApplicable() Confidence {
	return Confidence{}
}

// Value returns the percentage and whether it is known
func (c Confidence) Value() (float64, bool) {
	return c.value, c.known
}

// String renders 98.0, 87.25 or N/A
func (c Confidence) String() string {
	if !c.known {
		return "N/A"
	}
	s := strconv.FormatFloat(c.value, 'f', -1, 64)
	if c.value == math.Trunc(c.value) {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes a number, or the string "N/A"
func (c Confidence) MarshalJSON() ([]byte, error) {
	if !c.known {
		return json.Marshal("N/A")
	}
	return json.Marshal(c.value)
}

// ClassificationResult is the per-request verdict. It is never persisted.
type ClassificationResult struct {
	RequestID   string     `json:"request_id,omitempty"`
	InputType   InputType  `json:"input_type"`
	Input       string     `json:"input"`
	Label       Label      `json:"label"`
	Confidence  Confidence `json:"confidence"`
	Explanation []string   `json:"explanation"`
	AnalyzedURL string     `json:"analyzed_url,omitempty"`
	AnalyzedAt  time.Time  `json:"analyzed_at"`
}

// LabeledURL is one row of classifier training data
type LabeledURL struct {
	URL   string
	Label int
}
