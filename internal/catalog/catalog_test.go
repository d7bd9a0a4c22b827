package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moreever/internal/model"
)

func page(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("<html><body>" + s + "</body></html>")}
}

func fixtureSite() fstest.MapFS {
	return fstest.MapFS{
		"style.css":                               page("css"),
		"sb/values/values.html":                   page("values"),
		"sb/values/index.html":                    page("all"),
		"sb/values/Germany/index.html":            page("Germany"),
		"sb/values/Germany/65_Allerleirauh.html":  page("Allerleirauh"),
		"sb/values/Germany/1_the_frog_king.html":  page("frog"),
		"sb/values/Italy/index.html":              page("Italy"),
		"sb/values/Italy/3_the_cat.html":          page("cat"),
		"sb/values/values/label.html":             page("label list without index"),
		"lan/clustering/values.html":              page("values"),
		"lan/clustering/Portugal/index.html":      page("Portugal"),
		"lan/clustering/Portugal/2_the_king.html": page("king"),
		"lan/notes/readme.html":                   page("no values page"),
		"static/index.js":                         page("js"),
		".git/HEAD":                               page("ref"),
	}
}

func TestScan(t *testing.T) {
	cat, err := Scan(fixtureSite())
	require.NoError(t, err)

	assert.Equal(t, []string{"lan", "sb"}, cat.Stemmers)
	assert.Equal(t, []string{"clustering"}, cat.Vocabs["lan"])
	assert.Equal(t, []string{"values"}, cat.Vocabs["sb"])
	assert.Equal(t, []string{"Germany", "Italy"}, cat.Corpora["sb/values"])
	assert.Equal(t, []string{"Portugal"}, cat.Corpora["lan/clustering"])

	germany := cat.Documents["sb/values/Germany"]
	require.Len(t, germany, 2)
	assert.Equal(t, Document{
		Name:  "65_Allerleirauh.html",
		Title: "Allerleirauh",
		Path:  "sb/values/Germany/65_Allerleirauh.html",
	}, germany[0])
	assert.Equal(t, "The Frog King", germany[1].Title)
}

func TestCatalogUnions(t *testing.T) {
	cat, err := Scan(fixtureSite())
	require.NoError(t, err)

	assert.Equal(t, []string{"clustering", "values"}, cat.AllVocabs())
	assert.Equal(t, []string{"all", "Germany", "Italy", "Portugal"}, cat.AllCorpora())
}

func TestDocumentsFor(t *testing.T) {
	cat, err := Scan(fixtureSite())
	require.NoError(t, err)

	all := cat.DocumentsFor(model.Selection{Stemmer: "sb", Vocab: "values", Corpus: model.AllCorpora})
	assert.Len(t, all, 3)

	italy := cat.DocumentsFor(model.Selection{Stemmer: "sb", Vocab: "values", Corpus: "Italy"})
	require.Len(t, italy, 1)
	assert.Equal(t, "sb/values/Italy/3_the_cat.html", italy[0].Path)

	assert.Empty(t, cat.DocumentsFor(model.Selection{Stemmer: "ps", Vocab: "values", Corpus: "Italy"}))

	first, ok := cat.FirstDocument(model.Selection{Stemmer: "lan", Vocab: "clustering", Corpus: model.AllCorpora})
	require.True(t, ok)
	assert.Equal(t, "lan/clustering/Portugal/2_the_king.html", first.Path)
}

func TestStore(t *testing.T) {
	s := NewStore(&Catalog{Stemmers: []string{"sb"}})
	assert.Equal(t, []string{"sb"}, s.Get().Stemmers)

	s.Set(&Catalog{Stemmers: []string{"lan"}})
	assert.Equal(t, []string{"lan"}, s.Get().Stemmers)
}
