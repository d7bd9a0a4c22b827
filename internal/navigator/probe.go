package navigator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrNotFound reports that a probed resource does not exist.
var ErrNotFound = errors.New("resource not found")

// Prober checks whether a resource path exists. A nil error means it does.
type Prober interface {
	Probe(ctx context.Context, path string) error
}

// ProbeError describes a resource that answered with a non-success status.
type ProbeError struct {
	Path   string
	Status int
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: status %d", e.Path, e.Status)
}

// Unwrap lets errors.Is(err, ErrNotFound) match any non-success status.
func (e *ProbeError) Unwrap() error {
	return ErrNotFound
}

// HTTPProber probes paths relative to Base with a GET request. Only 200
// counts as present.
type HTTPProber struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPProber parses base and returns a prober using a client with the
// given timeout.
func NewHTTPProber(base string, timeout time.Duration) (*HTTPProber, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPProber{
		Base:   u,
		Client: &http.Client{Timeout: timeout},
	}, nil
}

// Resolve returns the absolute URL for a site path.
func (p *HTTPProber) Resolve(rel string) (*url.URL, error) {
	ref, err := url.Parse(rel)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", rel, err)
	}
	return p.Base.ResolveReference(ref), nil
}

func (p *HTTPProber) Probe(ctx context.Context, rel string) error {
	target, err := p.Resolve(rel)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rel, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ProbeError{Path: rel, Status: resp.StatusCode}
	}
	return nil
}

// FSProber probes paths inside a file system. Directories count as absent.
type FSProber struct {
	FS fs.FS
}

func (p FSProber) Probe(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(p.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", rel, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", rel, ErrNotFound)
	}
	return nil
}
