package model

// AllCorpora is the corpus value meaning "no specific collection filter".
const AllCorpora = "all"

// Selection is the state of the three selectors.
type Selection struct {
	Vocab   string `json:"vocab"`
	Stemmer string `json:"stemmer"`
	Corpus  string `json:"corpus"`
}

// IsAllCorpora reports whether the corpus selector is on the "all" sentinel.
func (s Selection) IsAllCorpora() bool {
	return s.Corpus == AllCorpora
}

// Targets holds the path shown by each display target.
type Targets struct {
	Values   string `json:"values"`
	List     string `json:"list"`
	Fulltext string `json:"fulltext"`
}

// ValuesPath returns the values page for a selection: stemmer/vocab/values.html.
func ValuesPath(s Selection) string {
	return s.Stemmer + "/" + s.Vocab + "/values.html"
}

// ListPath returns the document list for a selection. With the "all" corpus it
// lists every document under stemmer/vocab, otherwise only the chosen corpus.
func ListPath(s Selection) string {
	if s.IsAllCorpora() {
		return s.Stemmer + "/" + s.Vocab + "/index.html"
	}
	return s.Stemmer + "/" + s.Vocab + "/" + s.Corpus + "/index.html"
}

// FulltextCandidate moves the document shown in current under the directory
// of the selection. When the selection is on "all", the corpus is taken from
// the current document. ok is false when current names no document.
// The candidate is probed by its Path.
func FulltextCandidate(s Selection, current DocPath) (DocPath, bool) {
	if current.File == "" {
		return DocPath{}, false
	}
	corpus := s.Corpus
	if s.IsAllCorpora() {
		corpus = current.Corpus
	}
	return DocPath{
		Stemmer: s.Stemmer,
		Vocab:   s.Vocab,
		Corpus:  corpus,
		File:    current.File,
	}, true
}
