package verify

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
)

// ErrBrokenLinks is returned by Check callers when a site has broken links.
var ErrBrokenLinks = errors.ValidationError("generated site has broken links").Build()

// Broken describes a local reference whose target does not exist.
type Broken struct {
	Page   string // page path relative to the site root, slash separated
	URL    string // reference as written in the page
	Reason string
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: %s (%s)", b.Page, b.URL, b.Reason)
}

// Result summarizes a site check.
type Result struct {
	Pages  int
	Links  int
	Broken []Broken
}

// OK reports whether no broken links were found.
func (r *Result) OK() bool { return len(r.Broken) == 0 }

type target struct {
	page     string
	url      string
	file     string // slash separated, relative to root
	fragment string
}

// Check parses every .html file below root and verifies that each local
// reference resolves to an existing file. Fragments pointing into site pages
// must name an element id on that page. External URLs are not fetched.
func Check(ctx context.Context, root string) (*Result, error) {
	pages := make(map[string]*page)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		parsed, err := parseFile(p)
		if err != nil {
			return err
		}
		pages[filepath.ToSlash(rel)] = parsed
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("failed to read generated site").WithCause(err).
			WithContext("root", root).Build()
	}

	result := &Result{Pages: len(pages)}
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, link := range pages[name].links {
			result.Links++
			if !link.Local() {
				continue
			}
			t, ok := resolve(name, link.URL)
			if !ok {
				result.Broken = append(result.Broken, Broken{Page: name, URL: link.URL, Reason: "malformed reference"})
				continue
			}
			if reason := check(root, pages, t); reason != "" {
				slog.Debug("Broken link", logfields.File(name), logfields.URL(link.URL), slog.String("reason", reason))
				result.Broken = append(result.Broken, Broken{Page: name, URL: link.URL, Reason: reason})
			}
		}
	}

	slog.Info("Site verified",
		logfields.Path(root),
		logfields.Count(result.Pages),
		slog.Int("links", result.Links),
		slog.Int("broken", len(result.Broken)))
	return result, nil
}

func parseFile(p string) (*page, error) {
	f, err := os.Open(filepath.Clean(p))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	parsed, err := parsePage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return parsed, nil
}

// resolve turns a reference found on page into a root-relative file path.
func resolve(pageName, ref string) (target, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return target{}, false
	}
	t := target{page: pageName, url: ref, fragment: u.Fragment}
	switch {
	case u.Path == "":
		t.file = pageName
	case strings.HasPrefix(u.Path, "/"):
		t.file = strings.TrimPrefix(path.Clean(u.Path), "/")
	default:
		t.file = path.Join(path.Dir(pageName), u.Path)
	}
	if t.file == ".." || strings.HasPrefix(t.file, "../") {
		return target{}, false
	}
	return t, true
}

func check(root string, pages map[string]*page, t target) string {
	if p, ok := pages[t.file]; ok {
		if t.fragment == "" {
			return ""
		}
		if _, ok := p.ids[t.fragment]; !ok {
			return "missing anchor #" + t.fragment
		}
		return ""
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(t.file)))
	if err != nil {
		return "missing file"
	}
	if info.IsDir() {
		return "target is a directory"
	}
	return ""
}
