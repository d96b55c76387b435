package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ipPrefixPattern matches a dotted quad at the start of the URL only.
// Trailing characters are ignored, so "192.168.1.1234567" still matches.
// Digits are any Unicode decimal digit, as counted by num_digits.
var ipPrefixPattern = regexp.MustCompile(`^(\p{Nd}{1,3}\.){3}\p{Nd}{1,3}`)

// urlSuspiciousWords flags URLs that borrow credential or payment vocabulary
var urlSuspiciousWords = []string{
	"secure", "account", "update", "login", "verify", "bank", "confirm", "pay", "signin",
}

// ExtractFeatures maps any string to its feature vector. It never fails.
func ExtractFeatures(url string) FeatureVector {
	url = strings.ToLower(url)

	numDigits := 0
	for _, r := range url {
		if unicode.IsDigit(r) {
			numDigits++
		}
	}

	return FeatureVector{
		URLLength:       utf8.RuneCountInString(url),
		NumDots:         strings.Count(url, "."),
		HasHTTPS:        flag(strings.Contains(url, "https")),
		HasAt:           flag(strings.Contains(url, "@")),
		NumHyphens:      strings.Count(url, "-"),
		NumDigits:       numDigits,
		HasIP:           flag(ipPrefixPattern.MatchString(url)),
		SuspiciousWords: flag(containsAny(url, urlSuspiciousWords)),
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// containsAny checks if text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
