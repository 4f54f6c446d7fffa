package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/sync/singleflight"
)

// Renderer produces message content from a named template and data.
// Implementations return an error wrapping ErrRenderFailed when the template
// is missing or the data does not satisfy it.
type Renderer interface {
	Render(ctx context.Context, name string, data map[string]any) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, name string, data map[string]any) (string, error)

// Render calls f(ctx, name, data).
func (f RendererFunc) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	return f(ctx, name, data)
}

type templateKind int

const (
	kindText templateKind = iota
	kindHTML
	kindMarkdown
)

// kindOf picks the template engine from the file extension.
func kindOf(name string) templateKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return kindHTML
	case ".md", ".markdown":
		return kindMarkdown
	default:
		return kindText
	}
}

// FSRenderer renders templates stored in an fs.FS.
//
// Files ending in .html are executed with html/template, .md files are executed
// with text/template and converted to HTML, everything else is plain
// text/template. A "layout" frontmatter key wraps HTML output in a layout.
type FSRenderer struct {
	fs fs.FS
	md goldmark.Markdown

	// Caches store parsed structure, never rendered output.
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template
	templateDir   string
	layoutDir     string

	loads singleflight.Group
	mu    sync.RWMutex
}

type cachedTemplate struct {
	metadata map[string]any
	text     *texttemplate.Template
	html     *template.Template
	kind     templateKind
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *FSRenderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *FSRenderer {
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}

	return &FSRenderer{
		fs:            filesystem,
		templateDir:   opts.TemplateDir,
		layoutDir:     opts.LayoutDir,
		md:            goldmark.New(goldmark.WithExtensions(extension.GFM)),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// Render executes the named template with data.
func (r *FSRenderer) Render(_ context.Context, name string, data map[string]any) (string, error) {
	cached, err := r.getTemplate(name)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if cached.kind == kindHTML {
		err = cached.html.Execute(&out, data)
	} else {
		err = cached.text.Execute(&out, data)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	content := out.String()
	if cached.kind == kindMarkdown {
		var converted bytes.Buffer
		if err := r.md.Convert(out.Bytes(), &converted); err != nil {
			return "", fmt.Errorf("%w: %s: failed to convert markdown: %v", ErrRenderFailed, name, err)
		}
		content = converted.String()
	}

	layout, _ := cached.metadata["layout"].(string)
	if layout == "" || cached.kind == kindText {
		return content, nil
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return "", err
	}

	var final bytes.Buffer
	layoutData := map[string]any{
		"Content":  template.HTML(content), //nolint:gosec // output of html/template or goldmark
		"Metadata": cached.metadata,
	}
	if err := layoutTmpl.Execute(&final, layoutData); err != nil {
		return "", fmt.Errorf("%w: failed to execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return final.String(), nil
}

// getTemplate returns a cached template or parses and caches it.
func (r *FSRenderer) getTemplate(name string) (*cachedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templateCache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.loads.Do("template:"+name, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.templateCache[name]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		cached, err := r.loadTemplate(name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.templateCache[name] = cached
		r.mu.Unlock()
		return cached, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cachedTemplate), nil
}

func (r *FSRenderer) loadTemplate(name string) (*cachedTemplate, error) {
	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err))
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, fmt.Errorf("%s: %w", name, err))
	}

	cached := &cachedTemplate{metadata: parsed.Metadata, kind: kindOf(name)}
	if cached.kind == kindHTML {
		cached.html, err = template.New(name).Option("missingkey=error").Parse(parsed.Body)
	} else {
		cached.text, err = texttemplate.New(name).Option("missingkey=error").Parse(parsed.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template %s: %v", ErrRenderFailed, name, err)
	}

	return cached, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *FSRenderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	cached, ok := r.layoutCache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.loads.Do("layout:"+name, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.layoutCache[name]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
		if err != nil {
			return nil, errors.Join(ErrRenderFailed, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err))
		}

		layoutTmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse layout %s: %v", ErrRenderFailed, name, err)
		}

		r.mu.Lock()
		r.layoutCache[name] = layoutTmpl
		r.mu.Unlock()
		return layoutTmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}
