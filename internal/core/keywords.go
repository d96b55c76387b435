package core

import "strings"

// StrongKeywords are phrases decisive enough on their own to flag an email
var StrongKeywords = []string{
	"verify", "confirm", "reset password", "click here", "login",
	"secure link", "update your info", "suspend", "urgent", "security alert",
}

// WeakKeywords only count as evidence in numbers
var WeakKeywords = []string{"account", "update", "bank", "paypal", "secure", "password"}

// weakHitThreshold is the number of weak hits tolerated before an email is suspicious
const weakHitThreshold = 2

// MatchKeywords returns the vocabulary entries found in text, in vocabulary order.
// text is expected to be lower-cased already.
func MatchKeywords(text string, vocabulary []string) []string {
	var hits []string
	for _, word := range vocabulary {
		if strings.Contains(text, word) {
			hits = append(hits, word)
		}
	}
	return hits
}
