// Package catalog discovers what a generated site offers: the stemmers,
// vocabularies, corpora and documents present in its directory tree.
package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"moreever/internal/model"
)

const (
	valuesPage = "values.html"
	indexPage  = "index.html"
)

// Document is one fulltext page.
type Document struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Catalog lists the site contents. Map keys are directory paths relative
// to the site root ("sb", "sb/values", "sb/values/Germany").
type Catalog struct {
	Stemmers  []string              `json:"stemmers"`
	Vocabs    map[string][]string   `json:"vocabs"`
	Corpora   map[string][]string   `json:"corpora"`
	Documents map[string][]Document `json:"documents"`
}

// Scan walks fsys. A stemmer is a top-level directory holding at least one
// vocab; a vocab is a directory with a values.html; a corpus is a directory
// inside a vocab with an index.html. Every other .html file of a corpus is
// a document.
func Scan(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		Vocabs:    make(map[string][]string),
		Corpora:   make(map[string][]string),
		Documents: make(map[string][]Document),
	}

	stemmers, err := subdirs(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("scan site root: %w", err)
	}

	for _, stemmer := range stemmers {
		vocabs, err := subdirs(fsys, stemmer)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", stemmer, err)
		}
		for _, vocab := range vocabs {
			vdir := path.Join(stemmer, vocab)
			if !exists(fsys, path.Join(vdir, valuesPage)) {
				continue
			}
			c.Vocabs[stemmer] = append(c.Vocabs[stemmer], vocab)

			corpora, err := subdirs(fsys, vdir)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", vdir, err)
			}
			for _, corpus := range corpora {
				cdir := path.Join(vdir, corpus)
				if !exists(fsys, path.Join(cdir, indexPage)) {
					continue
				}
				c.Corpora[vdir] = append(c.Corpora[vdir], corpus)

				docs, err := documents(fsys, cdir)
				if err != nil {
					return nil, fmt.Errorf("scan %s: %w", cdir, err)
				}
				c.Documents[cdir] = docs
			}
		}
		if len(c.Vocabs[stemmer]) > 0 {
			c.Stemmers = append(c.Stemmers, stemmer)
		}
	}
	return c, nil
}

func subdirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func documents(fsys fs.FS, dir string) ([]Document, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == indexPage || !strings.HasSuffix(name, ".html") {
			continue
		}
		docs = append(docs, Document{
			Name:  name,
			Title: model.DocumentTitle(name),
			Path:  path.Join(dir, name),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	return docs, nil
}

func exists(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}

// AllVocabs is the sorted union of vocabs across stemmers.
func (c *Catalog) AllVocabs() []string {
	return union(c.Vocabs)
}

// AllCorpora is the sorted union of corpora across vocabs, led by the
// "all" sentinel.
func (c *Catalog) AllCorpora() []string {
	return append([]string{model.AllCorpora}, union(c.Corpora)...)
}

// DocumentsFor lists the documents visible under a selection. With the
// "all" corpus, documents of every corpus are returned.
func (c *Catalog) DocumentsFor(sel model.Selection) []Document {
	vdir := path.Join(sel.Stemmer, sel.Vocab)
	if !sel.IsAllCorpora() {
		return c.Documents[path.Join(vdir, sel.Corpus)]
	}
	var docs []Document
	for _, corpus := range c.Corpora[vdir] {
		docs = append(docs, c.Documents[path.Join(vdir, corpus)]...)
	}
	return docs
}

// FirstDocument returns the first document under sel, used to seed the
// fulltext target when nothing else is configured.
func (c *Catalog) FirstDocument(sel model.Selection) (Document, bool) {
	docs := c.DocumentsFor(sel)
	if len(docs) == 0 {
		return Document{}, false
	}
	return docs[0], true
}

func union(m map[string][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, vs := range m {
		for _, v := range vs {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Store holds the latest catalog for concurrent readers.
type Store struct {
	mu  sync.RWMutex
	cat *Catalog
}

// NewStore returns a store holding cat.
func NewStore(cat *Catalog) *Store {
	return &Store{cat: cat}
}

func (s *Store) Get() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

func (s *Store) Set(cat *Catalog) {
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
}
