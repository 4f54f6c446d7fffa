package internal

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

func TestAppFromContext(t *testing.T) {
	t.Parallel()

	_, err := AppFromContext(context.Background())
	require.ErrorIs(t, err, mailer.ErrNoAppContext)

	app := New()
	got, err := AppFromContext(app.Context(context.Background()))
	require.NoError(t, err)
	require.Same(t, app, got)
}

func TestMailerFromContext(t *testing.T) {
	t.Parallel()

	_, err := MailerFromContext(context.Background())
	require.ErrorIs(t, err, mailer.ErrNoAppContext)

	app := New(WithConfig(suppressedConfig()))
	ctx := app.Context(context.Background())

	_, err = MailerFromContext(ctx)
	require.ErrorIs(t, err, ErrMailNotInitialized)

	ext := InitMail(app, &bytes.Buffer{})
	m, err := MailerFromContext(ctx)
	require.NoError(t, err)
	require.Same(t, ext.Mailer().(*mailer.SinkMailer), m.(*mailer.SinkMailer))
}

func TestNewTemplatedMessage_OutsideAppContext(t *testing.T) {
	t.Parallel()

	msg, err := mailer.NewTemplatedMessage(context.Background(), mailer.TemplatedParams{
		TemplateBody: "welcome.txt",
	})
	require.ErrorIs(t, err, mailer.ErrNoAppContext)
	require.Nil(t, msg)
}

func TestApp_Extensions(t *testing.T) {
	t.Parallel()

	app := New(WithExtension("cache", 42))

	v, ok := app.Extension("cache")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = app.Extension("missing")
	assert.False(t, ok)

	app.SetExtension("cache", 43)
	v, _ = app.Extension("cache")
	assert.Equal(t, 43, v)
}

func TestApp_RequestContext(t *testing.T) {
	t.Parallel()

	templates := fstest.MapFS{
		"templates/welcome.html": {Data: []byte("<p>Hi {{.user}}</p>")},
	}

	var sink bytes.Buffer
	var order []string

	app := New(
		WithConfig(suppressedConfig()),
		WithTemplates(templates),
		WithMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, err := AppFromContext(r.Context())
				if err == nil {
					order = append(order, "middleware")
				}
				next.ServeHTTP(w, r)
			})
		}),
		WithRoutes(func(r chi.Router) {
			r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
				m, err := MailerFromContext(r.Context())
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				msg, err := mailer.NewTemplatedMessage(r.Context(), mailer.TemplatedParams{
					MessageParams: mailer.MessageParams{
						Subject:    "Welcome",
						Sender:     "from@example.org",
						Recipients: []string{"to@example.com"},
					},
					TemplateHTML: "welcome.html",
					Data:         map[string]any{"user": "World"},
				})
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				if err := m.Send(r.Context(), msg); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				order = append(order, "handler")
				w.WriteHeader(http.StatusAccepted)
			})
		}),
	)
	InitMail(app, &sink)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signup", nil))

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"middleware", "handler"}, order)
	assert.Contains(t, sink.String(), "Subject: Welcome")
	assert.Contains(t, sink.String(), "<p>Hi World</p>")
}

type pingHandler struct{}

func (pingHandler) Routes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
}

func TestApp_Handlers(t *testing.T) {
	t.Parallel()

	app := New(WithHandlers(pingHandler{}))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestApp_Run_ShutdownHooks(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	hookCalled := make(chan struct{})

	app := New()
	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			WithContext(ctx),
			ShutdownTimeout(time.Second),
			ShutdownHook(func(context.Context) error {
				close(hookCalled)
				return nil
			}),
		)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	select {
	case <-hookCalled:
	default:
		t.Fatal("shutdown hook not called")
	}
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	t.Run("suppressed mail is ready", func(t *testing.T) {
		t.Parallel()

		app := New(WithConfig(suppressedConfig()), WithHealthChecks())
		InitMail(app, &bytes.Buffer{})

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unreachable smtp is not ready", func(t *testing.T) {
		t.Parallel()

		cfg := Config{}
		cfg.Mail.SMTP.Host = "127.0.0.1"
		cfg.Mail.SMTP.Port = closedPort(t)

		app := New(WithConfig(cfg), WithHealthChecks(WithReadinessPath("/ready")))
		InitMail(app, nil)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready?format=json", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"mail"`)
	})

	t.Run("custom mail check", func(t *testing.T) {
		t.Parallel()

		app := New(WithHealthChecks(WithReadinessCheck(ExtensionMail, func(context.Context) error { return nil })))
		InitMail(app, nil)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// closedPort returns a local port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestApp_HealthChecks_ForeignMailExtension(t *testing.T) {
	t.Parallel()

	app := New(
		WithExtension(ExtensionCourierMail, "not a mail extension"),
		WithHealthChecks(),
	)

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
