package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeywords_VocabularyOrder(t *testing.T) {
	text := "urgent: please login and verify"

	hits := MatchKeywords(text, StrongKeywords)

	assert.Equal(t, []string{"verify", "login", "urgent"}, hits)
}

func TestMatchKeywords_Substrings(t *testing.T) {
	// "update your info" contains "update"; "passwords" contains "password"
	hits := MatchKeywords("please update your info and passwords", WeakKeywords)

	assert.Equal(t, []string{"update", "password"}, hits)
}

func TestMatchKeywords_NoHits(t *testing.T) {
	assert.Nil(t, MatchKeywords("hello there", WeakKeywords))
}

func TestKeywordVocabularies(t *testing.T) {
	assert.Len(t, StrongKeywords, 10)
	assert.Len(t, WeakKeywords, 6)
}
