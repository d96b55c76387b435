package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// previewLength is how many characters of an email are echoed back
	previewLength = 120

	confidenceClean      = 98.0
	confidenceStrongHit  = 95.0
	confidenceNoModelURL = 85.0
	confidenceFewWeak    = 93.0
	confidenceManyWeak   = 88.0
)

// ClassifyURL scores a single URL with the classifier, if one is available
func ClassifyURL(url string, handle ClassifierHandle) *ClassificationResult {
	result := &ClassificationResult{
		InputType:   InputURL,
		Input:       url,
		Label:       LabelUnableToAnalyze,
		Confidence:  NotApplicable(),
		Explanation: []string{describeURL(url)},
	}

	if classifier, ok := handle.Get(); ok {
		result.Label, result.Confidence = predict(classifier, ExtractFeatures(url))
	}

	return result
}

// ClassifyEmail fuses keyword heuristics with the URL classifier for an email body
func ClassifyEmail(body string, handle ClassifierHandle) *ClassificationResult {
	body = strings.TrimSpace(body)
	if body == "" {
		return &ClassificationResult{
			InputType:   InputEmail,
			Input:       "Empty email content.",
			Label:       LabelUnableToAnalyze,
			Confidence:  NotApplicable(),
			Explanation: []string{"No text provided."},
		}
	}

	urls := ExtractLinks(body)
	lower := strings.ToLower(body)
	strongHits := MatchKeywords(lower, StrongKeywords)
	weakHits := MatchKeywords(lower, WeakKeywords)

	result := &ClassificationResult{
		InputType: InputEmail,
		Input:     preview(body),
	}

	if len(urls) > 0 {
		result.Explanation = append(result.Explanation, "URLs found: "+strings.Join(urls, ", "))
	} else {
		result.Explanation = append(result.Explanation, "No URLs found in the email.")
	}

	switch {
	case len(strongHits) > 0:
		result.Explanation = append(result.Explanation, "Strong suspicious words: "+strings.Join(strongHits, ", "))
	case len(weakHits) > 0:
		result.Explanation = append(result.Explanation, "Mild suspicious words: "+strings.Join(weakHits, ", "))
	default:
		result.Explanation = append(result.Explanation, "No suspicious keywords found.")
	}

	// First matching branch wins.
	switch {
	case len(urls) == 0 && len(strongHits) == 0 && len(weakHits) == 0:
		result.Label, result.Confidence = LabelLegitimate, Percent(confidenceClean)

	case len(strongHits) > 0:
		result.Label, result.Confidence = LabelPhishing, Percent(confidenceStrongHit)

	case len(urls) > 0:
		if classifier, ok := handle.Get(); ok {
			result.Label, result.Confidence = predict(classifier, ExtractFeatures(urls[0]))
			result.AnalyzedURL = urls[0]
			result.Explanation = append(result.Explanation, "Analyzed URL: "+urls[0])
		} else {
			// strongHits is always empty here; kept so the rule reads the same
			// regardless of branch order.
			if len(strongHits) > 0 || len(weakHits) > weakHitThreshold {
				result.Label = LabelPhishing
			} else {
				result.Label = LabelLegitimate
			}
			result.Confidence = Percent(confidenceNoModelURL)
		}

	case len(weakHits) <= weakHitThreshold:
		result.Label, result.Confidence = LabelLegitimate, Percent(confidenceFewWeak)

	default:
		result.Label, result.Confidence = LabelPhishing, Percent(confidenceManyWeak)
	}

	return result
}

// predict runs the classifier and turns its output into a label and confidence
func predict(classifier Classifier, features FeatureVector) (Label, Confidence) {
	label := LabelLegitimate
	if classifier.Predict(features) != 0 {
		label = LabelPhishing
	}

	maxProba := 0.0
	for _, p := range classifier.PredictProba(features) {
		maxProba = math.Max(maxProba, p)
	}

	return label, Percent(roundPercent(maxProba))
}

// roundPercent converts a probability to a percentage rounded to two decimals.
// FormatFloat rounds the exact value half to even; math.Round on p*10000
// would round a second time and push halves away from zero.
func roundPercent(p float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(p*100, 'f', 2, 64), 64)
	if err != nil {
		return p * 100
	}
	return v
}

// describeURL is the fixed summary shown next to a URL verdict.
// It reads the URL as submitted, so the https check is case sensitive.
func describeURL(url string) string {
	return fmt.Sprintf("Length: %d, HTTPS: %s, '@' present: %s, Dots: %d",
		utf8.RuneCountInString(url),
		yesNo(strings.Contains(url, "https")),
		yesNo(strings.Contains(url, "@")),
		strings.Count(url, "."))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// preview returns the first previewLength characters, with "..." if cut
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}
