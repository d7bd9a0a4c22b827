package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moreever/internal/catalog"
	"moreever/internal/model"
	"moreever/internal/navigator"
)

func page(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("<html><body>" + s + "</body></html>")}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fsys := fstest.MapFS{
		"porter/en/values.html":      page("values"),
		"porter/en/index.html":       page("all"),
		"porter/en/news/index.html":  page("news"),
		"porter/en/news/doc1.html":   page("doc1"),
		"porter/en/blogs/index.html": page("blogs"),
		"lan/en/values.html":         page("values"),
		"lan/en/news/index.html":     page("news"),
		"lan/en/news/doc1.html":      page("doc1 lan"),
	}
	cat, err := catalog.Scan(fsys)
	require.NoError(t, err)

	s := NewServer(Options{
		FS:        fsys,
		Prober:    navigator.FSProber{FS: fsys},
		Catalog:   catalog.NewStore(cat),
		Selection: model.Selection{Vocab: "en", Stemmer: "porter", Corpus: model.AllCorpora},
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, v any) *http.Response {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestNavigateAllCorpora(t *testing.T) {
	srv := newTestServer(t)

	var nav navigation
	resp := getJSON(t, srv, "/api/navigate?vocab=en&stemmer=porter&corpus=all", &nav)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "porter/en/values.html", nav.Targets.Values)
	assert.Equal(t, "porter/en/index.html", nav.Targets.List)
	// No fulltext given: the first catalog document seeds it.
	assert.Equal(t, "porter/en/news/doc1.html", nav.Targets.Fulltext)
}

func TestNavigateMovesDocument(t *testing.T) {
	srv := newTestServer(t)

	var nav navigation
	getJSON(t, srv, "/api/navigate?stemmer=lan&corpus=news&fulltext=porter/en/news/doc1.html", &nav)

	assert.Equal(t, "lan/en/news/index.html", nav.Targets.List)
	assert.Equal(t, "lan/en/news/doc1.html", nav.Targets.Fulltext)
	require.Len(t, nav.Probes, 1)
	assert.Equal(t, "applied", nav.Probes[0].Status)
}

func TestNavigateKeepsDocumentWhenMissing(t *testing.T) {
	srv := newTestServer(t)

	var nav navigation
	getJSON(t, srv, "/api/navigate?corpus=blogs&fulltext=porter/en/news/doc1.html", &nav)

	assert.Equal(t, "porter/en/blogs/index.html", nav.Targets.List)
	assert.Equal(t, "porter/en/news/doc1.html", nav.Targets.Fulltext)
	require.Len(t, nav.Probes, 1)
	assert.Equal(t, "not found", nav.Probes[0].Status)
	assert.Equal(t, "porter/en/blogs/doc1.html", nav.Probes[0].Path)
}

func TestRoute(t *testing.T) {
	srv := newTestServer(t)

	var nav navigation
	resp := getJSON(t, srv, "/api/route?fragment="+url.QueryEscape("#lan/en/news/doc1.html"), &nav)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "lan/en/news/doc1.html", nav.Routed)
	assert.Equal(t, "lan/en/news/doc1.html", nav.Targets.Fulltext)

	resp = getJSON(t, srv, "/api/route?fragment="+url.QueryEscape("#"), &nav)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var cat catalog.Catalog
	getJSON(t, srv, "/api/catalog", &cat)
	assert.Equal(t, []string{"lan", "porter"}, cat.Stemmers)
	assert.Equal(t, []string{"blogs", "news"}, cat.Corpora["porter/en"])
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/?corpus=news&fulltext=porter/en/news/doc1.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, `src="/site/porter/en/values.html"`)
	assert.Contains(t, html, `src="/site/porter/en/news/index.html"`)
	assert.Contains(t, html, `src="/site/porter/en/news/doc1.html"`)
	assert.Contains(t, html, `<option value="news" selected>news</option>`)
	assert.NotContains(t, html, "Unable to find")
}

func TestIndexPageSilentOnMissingDocument(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/?corpus=blogs&fulltext=porter/en/news/doc1.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "Unable to find")
	assert.Contains(t, string(body), `src="/site/porter/en/blogs/index.html"`)
	assert.Contains(t, string(body), `src="/site/porter/en/news/doc1.html"`)
}

func TestSiteFiles(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/site/porter/en/news/doc1.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := srv.Client().Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}


func TestRemoteSiteIsProxied(t *testing.T) {
	upstream := http.NewServeMux()
	upstream.HandleFunc("/moreever/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/moreever/") {
		case "porter/en/values.html", "porter/en/index.html", "porter/en/news/doc1.html":
			w.Write([]byte("<html><body>" + r.URL.Path + "</body></html>"))
		default:
			http.NotFound(w, r)
		}
	})
	remote := httptest.NewServer(upstream)
	t.Cleanup(remote.Close)

	prober, err := navigator.NewHTTPProber(remote.URL+"/moreever", time.Second)
	require.NoError(t, err)
	prober.Client = remote.Client()

	s := NewServer(Options{
		BaseURL:   remote.URL + "/moreever",
		Prober:    prober,
		Selection: model.Selection{Vocab: "en", Stemmer: "porter", Corpus: model.AllCorpora},
		Fulltext:  "porter/en/news/doc1.html",
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `src="/site/porter/en/values.html"`)
	assert.Contains(t, string(body), `src="/site/porter/en/news/doc1.html"`)

	for _, path := range []string{"porter/en/values.html", "porter/en/index.html", "porter/en/news/doc1.html"} {
		resp, err := srv.Client().Get(srv.URL + "/site/" + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), "/moreever/"+path)
	}

	resp, err = srv.Client().Get(srv.URL + "/site/porter/en/news/missing.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNoSiteWithoutSource(t *testing.T) {
	s := NewServer(Options{Prober: navigator.FSProber{FS: fstest.MapFS{}}})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/site/porter/en/values.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
