package tui

import (
	"context"
	"io/fs"
	"time"

	"moreever/internal/catalog"
	"moreever/internal/model"
	"moreever/internal/navigator"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Selector indices, in focus order.
const (
	focusVocab = iota
	focusStemmer
	focusCorpus
	selectorCount
)

// previewLines bounds how much of a document is loaded into the preview.
const previewLines = 500

// Options configures the browser.
type Options struct {
	Catalog      *catalog.Catalog
	Selection    model.Selection
	Fulltext     string // document shown before any navigation
	Fragment     string // deep link routed at startup
	Prober       navigator.Prober
	FS           fs.FS // local site, for previews; nil when browsing over HTTP
	ProbeTimeout time.Duration
}

// AppModel holds the TUI state.
type AppModel struct {
	// Selector choices and the chosen index of each
	Choices [selectorCount][]string
	Chosen  [selectorCount]int
	Focus   int

	// Navigation
	Slots    *navigator.MemorySlots
	Nav      *navigator.Navigator
	settled  chan navigator.Outcome
	ctx      context.Context
	fragment string

	LastOutcome *navigator.Outcome
	Routed      string

	// Preview
	FS      fs.FS
	Preview model.DocumentPreview

	// UI State
	WindowSize  tea.WindowSizeMsg
	ShowHelp    bool
	InputMode   bool
	InputBuffer textinput.Model

	// Components
	PreviewViewport viewport.Model
}

// InitialModel returns the initial state.
func InitialModel(opts Options) AppModel {
	if opts.Catalog == nil {
		opts.Catalog = &catalog.Catalog{}
	}

	ti := textinput.New()
	ti.Placeholder = "#stemmer/vocab/corpus/document.html"
	ti.CharLimit = 256
	ti.Width = 50

	m := AppModel{
		FS:              opts.FS,
		InputBuffer:     ti,
		PreviewViewport: viewport.New(80, 10),
		settled:         make(chan navigator.Outcome, 32),
		ctx:             context.Background(),
		fragment:        opts.Fragment,
	}

	m.Choices[focusVocab] = withValue(opts.Catalog.AllVocabs(), opts.Selection.Vocab)
	m.Choices[focusStemmer] = withValue(opts.Catalog.Stemmers, opts.Selection.Stemmer)
	m.Choices[focusCorpus] = withValue(opts.Catalog.AllCorpora(), opts.Selection.Corpus)
	m.Chosen[focusVocab] = chosenIndex(m.Choices[focusVocab], opts.Selection.Vocab)
	m.Chosen[focusStemmer] = chosenIndex(m.Choices[focusStemmer], opts.Selection.Stemmer)
	m.Chosen[focusCorpus] = chosenIndex(m.Choices[focusCorpus], opts.Selection.Corpus)

	m.Slots = navigator.NewMemorySlots(m.Selection(), opts.Fulltext)
	settled := m.settled
	m.Nav = navigator.New(m.Slots, opts.Prober,
		navigator.WithProbeTimeout(opts.ProbeTimeout),
		navigator.WithSettleHook(func(o navigator.Outcome) {
			select {
			case settled <- o:
			default:
				// The UI is behind; the next outcome will carry the state.
			}
		}),
	)
	m.loadPreview()
	return m
}

// Selection is the selection the selectors currently show.
func (m AppModel) Selection() model.Selection {
	pick := func(i int) string {
		if len(m.Choices[i]) == 0 {
			return ""
		}
		return m.Choices[i][m.Chosen[i]]
	}
	return model.Selection{
		Vocab:   pick(focusVocab),
		Stemmer: pick(focusStemmer),
		Corpus:  pick(focusCorpus),
	}
}

// withValue makes sure the configured value is selectable even when the
// catalog does not list it.
func withValue(choices []string, v string) []string {
	if v == "" || indexOf(choices, v) >= 0 {
		return choices
	}
	return append(append([]string(nil), choices...), v)
}

func chosenIndex(choices []string, v string) int {
	if i := indexOf(choices, v); i >= 0 {
		return i
	}
	return 0
}

func indexOf(choices []string, v string) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return -1
}
