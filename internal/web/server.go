package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"moreever/internal/catalog"
	"moreever/internal/logging"
	"moreever/internal/model"
	"moreever/internal/navigator"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Options configures the web server.
type Options struct {
	Addr         string
	Root         string // local site directory, watched for changes; empty when remote
	FS           fs.FS  // site served under /site/
	BaseURL      string // remote site proxied under /site/ when FS is nil
	Prober       navigator.Prober
	Catalog      *catalog.Store
	Selection    model.Selection // selection for requests that name none
	Fulltext     string          // document for requests that name none
	ProbeTimeout time.Duration
}

// Server serves the frames page, the site and the navigation API.
type Server struct {
	opts   Options
	logger *logrus.Entry
}

// NewServer returns a server for opts.
func NewServer(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.NewStore(&catalog.Catalog{})
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	return &Server{
		opts:   opts,
		logger: logging.NewLogger("web"),
	}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	if site := s.siteHandler(); site != nil {
		mux.Handle("/site/", site)
	}

	// API Endpoints
	mux.HandleFunc("/api/navigate", s.handleNavigate)
	mux.HandleFunc("/api/route", s.handleRoute)
	mux.HandleFunc("/api/catalog", s.handleCatalog)
	mux.HandleFunc("/api/version", s.handleVersion)

	return mux
}

// siteHandler serves the site tree: from FS when the site is local,
// otherwise through a reverse proxy to BaseURL. It is nil when neither is set.
func (s *Server) siteHandler() http.Handler {
	if s.opts.FS != nil {
		return http.StripPrefix("/site/", http.FileServer(http.FS(s.opts.FS)))
	}
	if s.opts.BaseURL == "" {
		return nil
	}

	target, err := url.Parse(s.opts.BaseURL)
	if err != nil || target.Host == "" {
		s.logger.WithField("base_url", s.opts.BaseURL).Error("Invalid base URL, /site/ disabled")
		return nil
	}
	if !strings.HasSuffix(target.Path, "/") {
		target.Path += "/"
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.WithError(err).WithField("path", r.URL.Path).Warn("Site proxy failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return http.StripPrefix("/site", proxy)
}

// StartServer serves until ctx is cancelled. When a local root is set the
// catalog is kept current as the site changes.
func (s *Server) StartServer(ctx context.Context) error {
	if s.opts.Root != "" {
		w, err := catalog.NewWatcher(s.opts.Root, 0, s.opts.Catalog.Set)
		if err != nil {
			s.logger.WithError(err).Warn("Site watcher disabled")
		} else {
			go w.Start(ctx)
		}
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Infof("Starting moreever web server at %s", s.opts.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type probeResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type navigation struct {
	Selection model.Selection `json:"selection"`
	Targets   model.Targets   `json:"targets"`
	Routed    string          `json:"routed,omitempty"`
	Probes    []probeResult   `json:"probes"`
}

// navigate runs one navigation against fresh slots: an Update for the
// selection, then the route when one is given.
func (s *Server) navigate(ctx context.Context, sel model.Selection, fulltext, route string) navigation {
	var (
		mu     sync.Mutex
		probes []probeResult
	)
	slots := navigator.NewMemorySlots(sel, fulltext)
	nav := navigator.New(slots, s.opts.Prober,
		navigator.WithProbeTimeout(s.opts.ProbeTimeout),
		navigator.WithSettleHook(func(o navigator.Outcome) {
			p := probeResult{Path: o.Path, Status: o.Status.String()}
			if o.Err != nil {
				p.Error = o.Err.Error()
			}
			mu.Lock()
			probes = append(probes, p)
			mu.Unlock()
		}),
	)

	nav.Update(ctx)
	routed, _ := nav.Route(ctx, route)
	nav.Wait()

	return navigation{
		Selection: sel,
		Targets:   slots.Targets(),
		Routed:    routed,
		Probes:    probes,
	}
}

func (s *Server) selectionFrom(r *http.Request) (model.Selection, string) {
	q := r.URL.Query()
	sel := s.opts.Selection
	if v := q.Get("vocab"); v != "" {
		sel.Vocab = v
	}
	if v := q.Get("stemmer"); v != "" {
		sel.Stemmer = v
	}
	if v := q.Get("corpus"); v != "" {
		sel.Corpus = v
	}

	fulltext := q.Get("fulltext")
	if fulltext == "" {
		fulltext = s.opts.Fulltext
	}
	if fulltext == "" {
		if doc, ok := s.opts.Catalog.Get().FirstDocument(sel); ok {
			fulltext = doc.Path
		}
	}
	return sel, fulltext
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sel, fulltext := s.selectionFrom(r)
	nav := s.navigate(r.Context(), sel, fulltext, r.URL.Query().Get("route"))

	cat := s.opts.Catalog.Get()
	data := struct {
		Selection model.Selection
		Targets   model.Targets
		Vocabs    []string
		Stemmers  []string
		Corpora   []string
	}{
		Selection: sel,
		Targets:   nav.Targets,
		Vocabs:    withSelected(cat.AllVocabs(), sel.Vocab),
		Stemmers:  withSelected(cat.Stemmers, sel.Stemmer),
		Corpora:   withSelected(cat.AllCorpora(), sel.Corpus),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("Render index")
	}
}

func withSelected(choices []string, v string) []string {
	for _, c := range choices {
		if c == v {
			return choices
		}
	}
	return append(append([]string(nil), choices...), v)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sel, fulltext := s.selectionFrom(r)
	writeJSON(w, http.StatusOK, s.navigate(r.Context(), sel, fulltext, ""))
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("fragment")
	if model.ParseFragment(fragment) == "" {
		http.Error(w, "fragment is required", http.StatusBadRequest)
		return
	}

	sel, fulltext := s.selectionFrom(r)
	writeJSON(w, http.StatusOK, s.navigate(r.Context(), sel, fulltext, fragment))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.Get())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": model.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
