package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesPath(t *testing.T) {
	cases := []Selection{
		{Vocab: "en", Stemmer: "porter", Corpus: "all"},
		{Vocab: "values", Stemmer: "sb", Corpus: "Germany"},
		{Vocab: "clustering", Stemmer: "lan", Corpus: "Italy"},
		{Vocab: "", Stemmer: "porter", Corpus: "news"},
		{Vocab: "en", Stemmer: "", Corpus: "all"},
	}
	for _, s := range cases {
		assert.Equal(t, s.Stemmer+"/"+s.Vocab+"/values.html", ValuesPath(s))
	}
	assert.Equal(t, "porter//values.html", ValuesPath(Selection{Stemmer: "porter", Corpus: "news"}))
}

func TestListPath(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		expected string
	}{
		{
			name:     "all corpora",
			sel:      Selection{Vocab: "en", Stemmer: "porter", Corpus: AllCorpora},
			expected: "porter/en/index.html",
		},
		{
			name:     "single corpus",
			sel:      Selection{Vocab: "en", Stemmer: "porter", Corpus: "news"},
			expected: "porter/en/news/index.html",
		},
		{
			name:     "mixed case corpus",
			sel:      Selection{Vocab: "values", Stemmer: "sb", Corpus: "Portugal"},
			expected: "sb/values/Portugal/index.html",
		},
		{
			name:     "empty vocab keeps its segment",
			sel:      Selection{Vocab: "", Stemmer: "porter", Corpus: "news"},
			expected: "porter//news/index.html",
		},
		{
			name:     "empty vocab with all corpora",
			sel:      Selection{Vocab: "", Stemmer: "porter", Corpus: AllCorpora},
			expected: "porter//index.html",
		},
		{
			name:     "empty corpus is not all",
			sel:      Selection{Vocab: "en", Stemmer: "porter", Corpus: ""},
			expected: "porter/en//index.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ListPath(tt.sel))
		})
	}
}

func TestFulltextCandidate(t *testing.T) {
	current := ParseDocPath("sb/values/Germany/65_Allerleirauh.html")

	t.Run("specific corpus replaces directory", func(t *testing.T) {
		got, ok := FulltextCandidate(Selection{Vocab: "en", Stemmer: "porter", Corpus: "Italy"}, current)
		assert.True(t, ok)
		assert.Equal(t, "porter/en/Italy/65_Allerleirauh.html", got.Path())
	})

	t.Run("all keeps the current corpus", func(t *testing.T) {
		got, ok := FulltextCandidate(Selection{Vocab: "en", Stemmer: "porter", Corpus: AllCorpora}, current)
		assert.True(t, ok)
		assert.Equal(t, "porter/en/Germany/65_Allerleirauh.html", got.Path())
	})

	t.Run("empty selection segments stay in place", func(t *testing.T) {
		got, ok := FulltextCandidate(Selection{Vocab: "", Stemmer: "porter", Corpus: "news"}, current)
		assert.True(t, ok)
		assert.Equal(t, "porter//news/65_Allerleirauh.html", got.Path())
	})

	t.Run("no current document", func(t *testing.T) {
		_, ok := FulltextCandidate(Selection{Vocab: "en", Stemmer: "porter", Corpus: "news"}, DocPath{})
		assert.False(t, ok)
	})
}
