package multiplicity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

// stubViews renders each page as a short line naming what it was given.
var stubViews = ViewFuncs{
	Home: func(content HomeContent, cfg SiteConfig) templ.Component {
		next := "none"
		if content.NextEvent != nil {
			next = content.NextEvent.Slug
		}
		return text("home next=%s past=%d", next, len(content.PastEvents))
	},
	Event: func(e Event, settings SiteSettings, cfg SiteConfig) templ.Component {
		return text("event %s footer=%s", e.Slug, settings.Footer.Email)
	},
	AdminLogin: func(showError bool, csrf string) templ.Component {
		return text("login error=%t", showError)
	},
	AdminDashboard: func(events []Event, msg, csrf string) templ.Component {
		return text("dashboard events=%d msg=%s", len(events), msg)
	},
	AdminEventForm: func(e Event, msg, csrf string) templ.Component {
		return text("form %s msg=%s", e.Slug, msg)
	},
	AdminSettings: func(st SiteSettings, msg, csrf string) templ.Component {
		return text("settings about=%d msg=%s", len(st.AboutParagraphs), msg)
	},
	AdminImages: func(images []Image, csrf string) templ.Component {
		return text("images %d", len(images))
	},
	NotFound:    func() templ.Component { return text("not found") },
	ServerError: func() templ.Component { return text("server error") },
}

const testPassword = "correct horse"

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "site.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := SiteConfig{
		URL:           "https://multiplicity.example",
		AdminPassword: testPassword,
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
	opts = append([]Option{WithStore(store), WithStaticDir(filepath.Join(dir, "public")), WithSubscriber(&fakeSubscriber{})}, opts...)
	a := New(cfg, stubViews, opts...)
	require.NoError(t, a.Setup())
	t.Cleanup(func() { a.Close() })
	return a
}

func (a *App) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func (a *App) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

// adminSession logs in and returns the cookies an admin browser would hold.
func adminSession(t *testing.T, a *App) []*http.Cookie {
	t.Helper()
	rec := a.get("/admin/")
	cookies := rec.Result().Cookies()
	csrf := cookieValue(cookies, "_csrf")
	require.NotEmpty(t, csrf)

	rec = a.postForm("/admin/login/", url.Values{"password": {testPassword}}, cookies...)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return append(cookies, rec.Result().Cookies()...)
}

// postForm sends a form with the CSRF token taken from cookies.
func (a *App) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if tok := cookieValue(cookies, "_csrf"); tok != "" {
		form.Set("_csrf", tok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
