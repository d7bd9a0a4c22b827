package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"moreever/internal/catalog"
	"moreever/internal/config"
	"moreever/internal/logging"
	"moreever/internal/model"
	"moreever/internal/navigator"
	"moreever/internal/tui"
	"moreever/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "umilISLab",
		Repository: "moreever",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/umilISLab/moreever/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// site is the resolved location of the generated pages.
type site struct {
	fsys    fs.FS // nil when browsing over HTTP
	prober  navigator.Prober
	catalog *catalog.Catalog
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: moreever [options] [#deep-link]\n\n")
		fmt.Fprintf(os.Stderr, "moreever browses a generated moreever site by vocabulary, stemmer and corpus.\n")
		fmt.Fprintf(os.Stderr, "The document shown follows the selection whenever a matching page exists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  moreever -d site                          # Start TUI mode on ./site\n")
		fmt.Fprintf(os.Stderr, "  moreever -d site '#sb/values/Italy/3_x.html' # Open the TUI on a document\n")
		fmt.Fprintf(os.Stderr, "  moreever -w --addr :9000                  # Serve the site with the frames page\n")
		fmt.Fprintf(os.Stderr, "  moreever -r --stemmer porter --corpus all # Print the targets as JSON\n")
		fmt.Fprintf(os.Stderr, "  moreever --route '#porter/en/news/d.html' # Resolve a deep link\n")
	}

	rootFlag := pflag.StringP("root", "d", "", "Directory holding the generated site")
	baseURLFlag := pflag.StringP("base-url", "b", "", "Probe documents on a served site instead of a local directory")
	configFlag := pflag.StringP("config", "c", "", "Config file (default ~/.config/moreever/config.toml)")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	addrFlag := pflag.String("addr", "", "Listen address for Web Mode")
	resolveFlag := pflag.BoolP("resolve", "r", false, "Print the targets for the selection as JSON")
	routeFlag := pflag.String("route", "", "Resolve a deep link fragment and print the targets as JSON")
	vocabFlag := pflag.String("vocab", "", "Vocabulary selection")
	stemmerFlag := pflag.String("stemmer", "", "Stemmer selection")
	corpusFlag := pflag.String("corpus", "", "Corpus selection (\"all\" for every corpus)")
	fulltextFlag := pflag.String("fulltext", "", "Document shown before navigating")
	logLevelFlag := pflag.String("log-level", "", "Log level (debug, info, warn, error)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("moreever version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	override(&cfg.Site.Root, *rootFlag)
	override(&cfg.Site.BaseURL, *baseURLFlag)
	override(&cfg.Web.Addr, *addrFlag)
	override(&cfg.Selection.Vocab, *vocabFlag)
	override(&cfg.Selection.Stemmer, *stemmerFlag)
	override(&cfg.Selection.Corpus, *corpusFlag)
	override(&cfg.Navigator.Fulltext, *fulltextFlag)
	override(&cfg.Log.Level, *logLevelFlag)

	interactive := !*webFlag && !*resolveFlag && *routeFlag == ""
	if err := logging.Configure(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON}); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	if interactive && cfg.Log.File == "" {
		logging.Discard()
	}

	st, err := openSite(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening site: %v\n", err)
		os.Exit(1)
	}

	sel := model.Selection{
		Vocab:   cfg.Selection.Vocab,
		Stemmer: cfg.Selection.Stemmer,
		Corpus:  cfg.Selection.Corpus,
	}
	fulltext := cfg.Navigator.Fulltext
	if fulltext == "" {
		if doc, ok := st.catalog.FirstDocument(sel); ok {
			fulltext = doc.Path
		}
	}

	if *webFlag {
		runWebMode(cfg, st, sel)
		return
	}

	if *resolveFlag || *routeFlag != "" {
		runResolveMode(cfg, st, sel, fulltext, *routeFlag)
		return
	}

	// Default: TUI
	runTuiMode(cfg, st, sel, fulltext)
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

func openSite(cfg config.Config) (site, error) {
	if cfg.Site.BaseURL != "" {
		prober, err := navigator.NewHTTPProber(cfg.Site.BaseURL, cfg.Navigator.ProbeTimeout)
		if err != nil {
			return site{}, err
		}
		return site{prober: prober, catalog: &catalog.Catalog{}}, nil
	}

	info, err := os.Stat(cfg.Site.Root)
	if err != nil {
		return site{}, err
	}
	if !info.IsDir() {
		return site{}, fmt.Errorf("%s is not a directory", cfg.Site.Root)
	}

	fsys := os.DirFS(cfg.Site.Root)
	cat, err := catalog.Scan(fsys)
	if err != nil {
		return site{}, err
	}
	return site{fsys: fsys, prober: navigator.FSProber{FS: fsys}, catalog: cat}, nil
}

func runWebMode(cfg config.Config, st site, sel model.Selection) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := ""
	if st.fsys != nil {
		root = cfg.Site.Root
	}
	srv := web.NewServer(web.Options{
		Addr:         cfg.Web.Addr,
		Root:         root,
		FS:           st.fsys,
		BaseURL:      cfg.Site.BaseURL,
		Prober:       st.prober,
		Catalog:      catalog.NewStore(st.catalog),
		Selection:    sel,
		Fulltext:     cfg.Navigator.Fulltext,
		ProbeTimeout: cfg.Navigator.ProbeTimeout,
	})

	fmt.Printf("Go to http://localhost%s in your browser.\n", cfg.Web.Addr)
	if err := srv.StartServer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error running web server: %v\n", err)
		os.Exit(1)
	}
}

func runResolveMode(cfg config.Config, st site, sel model.Selection, fulltext, fragment string) {
	slots := navigator.NewMemorySlots(sel, fulltext)
	nav := navigator.New(slots, st.prober, navigator.WithProbeTimeout(cfg.Navigator.ProbeTimeout))

	ctx := context.Background()
	if fragment != "" {
		nav.Route(ctx, fragment)
	} else {
		nav.Update(ctx)
	}
	nav.Wait()

	out := struct {
		Selection model.Selection `json:"selection"`
		Targets   model.Targets   `json:"targets"`
	}{sel, slots.Targets()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func runTuiMode(cfg config.Config, st site, sel model.Selection, fulltext string) {
	m := tui.InitialModel(tui.Options{
		Catalog:      st.catalog,
		Selection:    sel,
		Fulltext:     fulltext,
		Fragment:     pflag.Arg(0),
		Prober:       st.prober,
		FS:           st.fsys,
		ProbeTimeout: cfg.Navigator.ProbeTimeout,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
