package mailer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_PlainText(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fstest.MapFS{
		"welcome.txt": &fstest.MapFile{Data: []byte(`Hi {{.user}}`)},
	})

	out, err := renderer.Render(context.Background(), "welcome.txt", map[string]any{"user": "World"})
	require.NoError(t, err)
	require.Equal(t, "Hi World", out)
}

func TestRenderer_Render_HTMLEscapesData(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fstest.MapFS{
		"welcome.html": &fstest.MapFile{Data: []byte(`<p>Hello {{.user}}</p>`)},
	})

	out, err := renderer.Render(context.Background(), "welcome.html", map[string]any{"user": "<b>Bob</b>"})
	require.NoError(t, err)
	require.Equal(t, "<p>Hello &lt;b&gt;Bob&lt;/b&gt;</p>", out)
}

func TestRenderer_Render_TextDoesNotEscape(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fstest.MapFS{
		"welcome.txt": &fstest.MapFile{Data: []byte(`Hello {{.user}}`)},
	})

	out, err := renderer.Render(context.Background(), "welcome.txt", map[string]any{"user": "<b>Bob</b>"})
	require.NoError(t, err)
	require.Equal(t, "Hello <b>Bob</b>", out)
}

func TestRenderer_Render_Markdown(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fstest.MapFS{
		"welcome.md": &fstest.MapFile{Data: []byte("Hello **{{.user}}**!\n")},
	})

	out, err := renderer.Render(context.Background(), "welcome.md", map[string]any{"user": "Alice"})
	require.NoError(t, err)
	require.Contains(t, out, "<strong>Alice</strong>")
	require.NotContains(t, out, "**")
}

func TestRenderer_Render_Layout(t *testing.T) {
	t.Parallel()

	renderer := NewRendererWithConfig(fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><title>{{.Metadata.title}}</title><body>{{.Content}}</body></html>`),
		},
		"welcome.md": &fstest.MapFile{
			Data: []byte("---\nlayout: base.html\ntitle: Welcome\n---\nHello **{{.user}}**"),
		},
	}, RendererConfig{LayoutDir: "layouts"})

	out, err := renderer.Render(context.Background(), "welcome.md", map[string]any{"user": "Alice"})
	require.NoError(t, err)
	require.Contains(t, out, "<title>Welcome</title>")
	require.Contains(t, out, "<body><p>Hello <strong>Alice</strong></p>")
}

func TestRenderer_Render_LayoutIgnoredForText(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(fstest.MapFS{
		"welcome.txt": &fstest.MapFile{Data: []byte("---\nlayout: missing.html\n---\nHi {{.user}}")},
	})

	out, err := renderer.Render(context.Background(), "welcome.txt", map[string]any{"user": "Bob"})
	require.NoError(t, err)
	require.Equal(t, "Hi Bob", out)
}

func TestRenderer_Render_TemplateDir(t *testing.T) {
	t.Parallel()

	renderer := NewRendererWithConfig(fstest.MapFS{
		"emails/welcome.txt": &fstest.MapFile{Data: []byte(`Hi`)},
	}, RendererConfig{TemplateDir: "emails"})

	out, err := renderer.Render(context.Background(), "welcome.txt", nil)
	require.NoError(t, err)
	require.Equal(t, "Hi", out)
}

func TestRenderer_Render_Errors(t *testing.T) {
	t.Parallel()

	renderer := NewRendererWithConfig(fstest.MapFS{
		"needs_user.txt":  &fstest.MapFile{Data: []byte(`Hi {{.user}}`)},
		"broken.txt":      &fstest.MapFile{Data: []byte(`Hi {{.user`)},
		"bad_front.txt":   &fstest.MapFile{Data: []byte("---\nlayout: [unclosed\n---\nHi")},
		"no_layout.html":  &fstest.MapFile{Data: []byte("---\nlayout: missing.html\n---\n<p>Hi</p>")},
		"bad_layout.html": &fstest.MapFile{Data: []byte("---\nlayout: broken.html\n---\n<p>Hi</p>")},
		"layouts/broken.html": &fstest.MapFile{
			Data: []byte(`{{.Content`),
		},
	}, RendererConfig{LayoutDir: "layouts"})

	tests := []struct {
		name    string
		tmpl    string
		wantErr error
	}{
		{"missing template", "nonexistent.txt", ErrTemplateNotFound},
		{"missing variable", "needs_user.txt", ErrRenderFailed},
		{"parse error", "broken.txt", ErrRenderFailed},
		{"invalid frontmatter", "bad_front.txt", ErrInvalidFrontmatter},
		{"missing layout", "no_layout.html", ErrLayoutNotFound},
		{"broken layout", "bad_layout.html", ErrRenderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := renderer.Render(context.Background(), tt.tmpl, map[string]any{})
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, ErrRenderFailed)
			require.Empty(t, out)
		})
	}
}

func TestRenderer_Render_CachesTemplates(t *testing.T) {
	t.Parallel()

	var readCount atomic.Int32

	cfs := &countingFS{
		MapFS: fstest.MapFS{
			"layouts/default.html": &fstest.MapFile{
				Data: []byte(`<html>{{.Content}}</html>`),
			},
			"email.md": &fstest.MapFile{
				Data: []byte("---\nlayout: default.html\n---\nHello {{.Name}}\n"),
			},
		},
		readCount: &readCount,
	}

	renderer := NewRendererWithConfig(cfs, RendererConfig{LayoutDir: "layouts"})

	first, err := renderer.Render(context.Background(), "email.md", map[string]any{"Name": "Alice"})
	require.NoError(t, err)
	require.Equal(t, int32(2), readCount.Load(), "template and layout should be read once")

	second, err := renderer.Render(context.Background(), "email.md", map[string]any{"Name": "Bob"})
	require.NoError(t, err)
	require.Equal(t, int32(2), readCount.Load(), "second render should use the cache")

	require.Contains(t, first, "Hello Alice")
	require.Contains(t, second, "Hello Bob")
}

func TestRenderer_Render_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	renderer := NewRendererWithConfig(fstest.MapFS{
		"layouts/default.html": &fstest.MapFile{
			Data: []byte(`<html>{{.Content}}</html>`),
		},
		"email.md": &fstest.MapFile{
			Data: []byte("---\nlayout: default.html\n---\nHello {{.ID}}\n"),
		},
	}, RendererConfig{LayoutDir: "layouts"})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := range 100 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			out, err := renderer.Render(context.Background(), "email.md", map[string]any{"ID": id})
			if err != nil {
				errs <- err
				return
			}
			if want := fmt.Sprintf("Hello %d", id); !strings.Contains(out, want) {
				errs <- fmt.Errorf("render %d: got %q", id, out)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
}

func TestRendererFunc(t *testing.T) {
	t.Parallel()

	var r Renderer = RendererFunc(func(_ context.Context, name string, data map[string]any) (string, error) {
		return name + ":" + fmt.Sprint(data["k"]), nil
	})

	out, err := r.Render(context.Background(), "t", map[string]any{"k": "v"})
	require.NoError(t, err)
	require.Equal(t, "t:v", out)
}

// countingFS wraps MapFS and counts ReadFile calls.
type countingFS struct {
	fstest.MapFS
	readCount *atomic.Int32
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.readCount.Add(1)
	return c.MapFS.ReadFile(name)
}
