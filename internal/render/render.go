// Package render turns the gallery model into HTML pages and static assets.
//
// Templates are loaded once into an immutable *Templates value and passed to
// whoever renders; there is no package-level template state.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrRender indicates a page could not be produced from its data.
var ErrRender = errors.New("failed to render page")

//go:embed assets/templates/*.html.tmpl assets/static/*.css
var assets embed.FS

const (
	partialsFile = "partials.html.tmpl"

	GalleryTemplate     = "gallery.html.tmpl"
	CollectionsTemplate = "collections.html.tmpl"
	CollectionTemplate  = "collection.html.tmpl"
)

// StaticAssets are copied verbatim into the output root.
var StaticAssets = []string{"index.css", "carousel.css"}

// Asset is a static file ready to be written.
type Asset struct {
	Name    string
	Content []byte
}

// Templates holds the parsed page templates and static assets.
type Templates struct {
	pages  map[string]*template.Template
	static []Asset
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"dec": func(i int) int { return i - 1 },
	}
}

// Load parses the built-in templates. Files with the same name in resourcesDir
// (templates or stylesheets) replace the built-in ones. An empty resourcesDir
// uses only the built-ins.
func Load(resourcesDir string) (*Templates, error) {
	partials, err := readResource(resourcesDir, "assets/templates", partialsFile)
	if err != nil {
		return nil, err
	}
	base, err := template.New(partialsFile).Funcs(funcs()).Option("missingkey=error").Parse(string(partials))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrRender, partialsFile, err)
	}

	t := &Templates{pages: make(map[string]*template.Template, 3)}
	for _, name := range []string{GalleryTemplate, CollectionsTemplate, CollectionTemplate} {
		src, err := readResource(resourcesDir, "assets/templates", name)
		if err != nil {
			return nil, err
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: clone partials: %w", ErrRender, err)
		}
		page, err := clone.New(name).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrRender, name, err)
		}
		t.pages[name] = page
	}

	for _, name := range StaticAssets {
		content, err := readResource(resourcesDir, "assets/static", name)
		if err != nil {
			return nil, err
		}
		t.static = append(t.static, Asset{Name: name, Content: content})
	}
	return t, nil
}

// readResource prefers resourcesDir/name and falls back to the embedded copy.
func readResource(resourcesDir, embeddedDir, name string) ([]byte, error) {
	if resourcesDir != "" {
		path := filepath.Join(resourcesDir, name)
		// #nosec G304 -- resources directory is operator supplied.
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			return content, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: read %s: %w", ErrRender, path, err)
		}
	}
	content, err := fs.ReadFile(assets, embeddedDir+"/"+name)
	if err != nil {
		return nil, fmt.Errorf("%w: embedded %s: %w", ErrRender, name, err)
	}
	return content, nil
}

// Static returns the stylesheets to copy into the output root.
func (t *Templates) Static() []Asset {
	out := make([]Asset, len(t.static))
	copy(out, t.static)
	return out
}

// Gallery renders gallery.html.
func (t *Templates) Gallery(data GalleryData) ([]byte, error) {
	return t.execute(GalleryTemplate, data)
}

// Collections renders collections.html.
func (t *Templates) Collections(data GalleryData) ([]byte, error) {
	return t.execute(CollectionsTemplate, data)
}

// Collection renders one collection page.
func (t *Templates) Collection(data CollectionPageData) ([]byte, error) {
	return t.execute(CollectionTemplate, data)
}

func (t *Templates) execute(name string, data any) ([]byte, error) {
	tpl, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown template %s", ErrRender, name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	return buf.Bytes(), nil
}
