package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost_IsEmpty(t *testing.T) {
	assert.True(t, Post{}.IsEmpty())
	assert.True(t, Post{URL: "https://example.com", AuthorName: "x"}.IsEmpty())
	assert.False(t, Post{ID: "66a1"}.IsEmpty())
	assert.False(t, Post{Title: "t"}.IsEmpty())
	assert.False(t, Post{MediaURLs: []string{"https://img"}}.IsEmpty())
}

func TestPost_DisplayFallbacks(t *testing.T) {
	p := Post{}
	assert.Equal(t, "Unknown title", p.DisplayTitle())
	assert.Equal(t, "Unknown author", p.DisplayAuthor())

	p = Post{Title: "周末露营", AuthorName: "小明"}
	assert.Equal(t, "周末露营", p.DisplayTitle())
	assert.Equal(t, "小明", p.DisplayAuthor())
}

func TestOutcome_Succeeded(t *testing.T) {
	assert.True(t, Outcome{Status: OutcomeSucceeded}.Succeeded())
	assert.False(t, Outcome{Status: OutcomeFailed}.Succeeded())
	assert.False(t, Outcome{Status: OutcomeCrashed}.Succeeded())
}
