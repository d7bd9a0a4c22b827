// Package navigator keeps the values, list and fulltext targets of a
// document browser in step with the vocab, stemmer and corpus selectors.
//
// Values and list paths follow directly from the selection and are written
// synchronously. The fulltext path is only switched once a probe confirms
// the candidate document exists. Probes run in their own goroutines; each
// one gets a token, starting a probe cancels the one before it, and only the
// most recently issued probe may write the fulltext target.
package navigator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"moreever/internal/logging"
	"moreever/internal/model"
)

// Status classifies how a probe settled.
type Status int

const (
	Applied    Status = iota // resource found, fulltext target updated
	NotFound                 // resource answered with a non-success status
	Failed                   // transport or file system failure
	Superseded               // a newer probe was issued before this one settled
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Outcome is the result of one probe.
type Outcome struct {
	Path   string
	Token  uint64
	Status Status
	Err    error
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithSettleHook calls fn with every probe outcome, after the fulltext
// target has been written (if it was).
func WithSettleHook(fn func(Outcome)) Option {
	return func(n *Navigator) { n.onSettle = fn }
}

// WithProbeTimeout bounds each probe. Zero means no bound beyond the
// caller's context.
func WithProbeTimeout(d time.Duration) Option {
	return func(n *Navigator) { n.timeout = d }
}

// WithLogger replaces the component logger.
func WithLogger(l *logrus.Entry) Option {
	return func(n *Navigator) { n.log = l }
}

// Navigator drives a set of Slots.
type Navigator struct {
	slots    Slots
	prober   Prober
	log      *logrus.Entry
	timeout  time.Duration
	onSettle func(Outcome)

	mu     sync.Mutex
	issued uint64
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// New returns a Navigator writing to slots and checking fulltext candidates
// with prober.
func New(slots Slots, prober Prober, opts ...Option) *Navigator {
	n := &Navigator{
		slots:  slots,
		prober: prober,
		log:    logging.NewLogger("navigator"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Update recomputes the targets from the current selection. It is the
// handler for a change of any selector.
//
// The values and list targets are written before Update returns. The
// fulltext candidate keeps the document currently shown and moves it under
// the selected stemmer, vocab and corpus; it is probed in the background.
func (n *Navigator) Update(ctx context.Context) {
	sel := n.slots.Selection()

	n.slots.SetValues(model.ValuesPath(sel))
	n.slots.SetList(model.ListPath(sel))

	current := model.ParseDocPath(n.slots.Fulltext())
	candidate, ok := model.FulltextCandidate(sel, current)
	if !ok {
		n.log.WithField("fulltext", n.slots.Fulltext()).Debug("No document shown, skipping fulltext probe")
		return
	}
	n.dispatch(ctx, candidate.Path())
}

// Route handles a deep link. The fragment is cleaned to a resource path,
// which is probed in the background like an Update candidate. It returns
// the cleaned path and false when the fragment carried none.
func (n *Navigator) Route(ctx context.Context, fragment string) (string, bool) {
	if fragment == "" {
		return "", false
	}
	n.log.Debugf("Route is %s", fragment)

	path := model.ParseFragment(fragment)
	if path == "" {
		return "", false
	}
	n.log.Debugf("URL is %s", path)

	n.dispatch(ctx, path)
	return path, true
}

// TryUpdate probes path and, if it exists and no newer probe has been
// issued meanwhile, makes it the fulltext target. It blocks until the probe
// settles.
func (n *Navigator) TryUpdate(ctx context.Context, path string) Outcome {
	token, pctx := n.begin(ctx)
	return n.run(pctx, token, path)
}

// Wait blocks until every probe started by Update or Route has settled.
func (n *Navigator) Wait() {
	n.wg.Wait()
}

// Stop cancels the in-flight probe, if any.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *Navigator) dispatch(ctx context.Context, path string) {
	// The token is taken here, not in the goroutine, so issue order matches
	// call order.
	token, pctx := n.begin(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.run(pctx, token, path)
	}()
}

func (n *Navigator) begin(ctx context.Context) (uint64, context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
	}
	n.issued++

	var (
		pctx   context.Context
		cancel context.CancelFunc
	)
	if n.timeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, n.timeout)
	} else {
		pctx, cancel = context.WithCancel(ctx)
	}
	n.cancel = cancel
	return n.issued, pctx
}

func (n *Navigator) run(ctx context.Context, token uint64, path string) Outcome {
	err := n.prober.Probe(ctx, path)

	out := Outcome{Path: path, Token: token, Err: err}

	n.mu.Lock()
	latest := token == n.issued
	switch {
	case !latest:
		out.Status = Superseded
	case err == nil:
		out.Status = Applied
		n.slots.SetFulltext(path)
	case errors.Is(err, ErrNotFound):
		out.Status = NotFound
	default:
		out.Status = Failed
	}
	if latest && n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.mu.Unlock()

	entry := n.log.WithFields(logrus.Fields{"path": path, "token": token})
	switch out.Status {
	case Applied:
		entry.Debug("Fulltext updated")
	case NotFound:
		entry.Warnf("Unable to find: %s", path)
	case Failed:
		entry.WithError(err).Warnf("Unable to find: %s", path)
	case Superseded:
		entry.Debug("Probe superseded")
	}

	if n.onSettle != nil {
		n.onSettle(out)
	}
	return out
}
