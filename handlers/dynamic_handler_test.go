package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ZacxDev/nolan-sites/config"
	"github.com/ZacxDev/nolan-sites/forms"
	"github.com/ZacxDev/nolan-sites/hosts"
)

const (
	mainHost  = "ananolan.com"
	taxesHost = "taxes.ananolan.com"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func testConfig(root string) *config.SiteConfig {
	return &config.SiteConfig{
		ContentDir:    filepath.Join(root, "content"),
		PublicDir:     filepath.Join(root, "public"),
		AssetsDir:     filepath.Join(root, ".assets"),
		AdminConfig:   filepath.Join(root, "public", "admin", "config.yml"),
		FormEndpoint:  "/__forms.html",
		Locales:       []string{"en", "ru"},
		DefaultLocale: "en",
		Hosts:         config.Hosts{Main: mainHost, Taxes: taxesHost, TaxesLocal: "taxes.ananolan.local"},
		Origins:       config.Origins{Main: "https://ananolan.com", Taxes: "https://taxes.ananolan.com"},
		Brand:         config.Brand{LastName: "Nolan", MainTitle: "Ana Nolan", TaxesTitle: "Ana Nolan Taxes"},
	}
}

func seedSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "content/main/business-card/en.md", `---
name: Ana Nolan
subtitle: Tax consultant
photo: uploads/ana.jpg
email: ana@example.com
phone: "+1 (555) 010-2000"
location: Brooklyn, NY
social_links:
  - platform: LinkedIn
    url: https://linkedin.example/ana
  - platform: Myspace
    url: https://myspace.example/ana
taxes_promo_title: Need help with taxes?
contact_form_title: Write to me
contact_submit_text: Send it
---
`)
	writeFile(t, root, "content/main/business-card/ru.md", `---
name: Анна Нолан
subtitle: Налоговый консультант
---
`)
	writeFile(t, root, "content/main/blog/en/first-post.md", `---
title: First post
date: 2024-01-10
author: Ana
---
Hello **world**.
`)
	writeFile(t, root, "content/main/blog/en/second-post.md", `---
title: Second post
date: 2024-03-01
---
Newer.
`)
	writeFile(t, root, "content/main/pages/en/about.md", `---
title: About me
---
About body.
`)
	writeFile(t, root, "content/main/pages/en/contact.md", `---
title: Say hello
---
Reach out.
`)
	writeFile(t, root, "content/taxes/services/en/bookkeeping.md", `---
title: Bookkeeping
short_description: Monthly books.
price: $200
order: 2
---
Bookkeeping details.
`)
	writeFile(t, root, "content/taxes/services/en/returns.md", `---
title: Tax returns
short_description: Federal and state.
order: 1
---
`)
	writeFile(t, root, "content/taxes/services/ru/returns.md", `---
title: Налоговые декларации
short_description: Федеральные и штатные.
order: 1
---
`)
	writeFile(t, root, "content/taxes/services/en/hidden.md", `---
title: Hidden
draft: true
---
`)
	writeFile(t, root, "content/taxes/pages/en/faq.md", `---
title: Frequently asked
---
Questions.
`)
	writeFile(t, root, "public/admin/config.yml", "backend:\n  name: git-gateway\n")
	writeFile(t, root, "public/admin/index.html", "<html>admin</html>")
	writeFile(t, root, "public/robots.txt", "User-agent: *\n")
	return root
}

type recordingSaver struct {
	subs []forms.Submission
}

func (s *recordingSaver) Save(_ context.Context, sub forms.Submission) error {
	s.subs = append(s.subs, sub)
	return nil
}

func newTestApp(t *testing.T, root string, saver forms.Saver) *App {
	t.Helper()
	var capture http.Handler
	if saver != nil {
		capture = forms.NewCapture(saver, nil, zap.NewNop())
	}
	app, err := SetupRouter(Options{
		Config: testConfig(root),
		Forms:  capture,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return app
}

func get(app http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouterRequiresConfig(t *testing.T) {
	_, err := SetupRouter(Options{})
	assert.Error(t, err)
}

func TestHostRouting(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	cases := []struct {
		name     string
		host     string
		path     string
		status   int
		contains []string
	}{
		{"main home", mainHost, "/", http.StatusOK, []string{"Ana Nolan", `lang="en"`, "Need help with taxes?"}},
		{"main home ru", mainHost, "/ru", http.StatusOK, []string{"Анна Нолан", `lang="ru"`}},
		{"main blog", mainHost, "/blog", http.StatusOK, []string{"First post", "Second post"}},
		{"main blog ru", mainHost, "/ru/blog", http.StatusOK, []string{"Блог", "/ru/blog/first-post"}},
		{"localhost is main", "localhost:9010", "/about", http.StatusOK, []string{"About me"}},
		{"unknown host is main", "example.org", "/about", http.StatusOK, []string{"About me"}},
		{"taxes home", taxesHost, "/", http.StatusOK, []string{"Accounting Services You Can Trust", `id="contact-form"`, "Ana Nolan Taxes"}},
		{"taxes local with port", "taxes.ananolan.local:3000", "/services", http.StatusOK, []string{"Bookkeeping"}},
		{"taxes prefix host", "taxes.localhost", "/ru/services", http.StatusOK, []string{"Наши услуги", "Налоговые декларации", "Bookkeeping"}},
		{"taxes page", taxesHost, "/faq", http.StatusOK, []string{"Frequently asked"}},
		{"taxes en prefix is a slug", taxesHost, "/en", http.StatusNotFound, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(app, tc.host, tc.path)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			for _, want := range tc.contains {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestDefaultLocalePrefixRedirects(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	for path, want := range map[string]string{
		"/en":             "/",
		"/en/blog":        "/blog",
		"/en/blog?page=2": "/blog?page=2",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Host = mainHost
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMovedPermanently, rec.Code, path)
		assert.Equal(t, want, rec.Header().Get("Location"), path)
	}
}

func TestLocaleRedirectStaysOnHost(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	for path, want := range map[string]string{
		"/en//evil.example/path": "/evil.example/path",
		"/en//evil.example/":     "/evil.example",
	} {
		rec := get(app, mainHost, path)
		assert.Equal(t, http.StatusMovedPermanently, rec.Code, path)
		assert.Equal(t, want, rec.Header().Get("Location"), path)
	}

	// A dotted last segment is served as a file path; the router's own
	// path cleaning must not leave a protocol-relative Location either.
	rec := get(app, mainHost, "/en//evil.example")
	assert.False(t, strings.HasPrefix(rec.Header().Get("Location"), "//"))
}

func TestBusinessCardHasNoChrome(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)
	body := get(app, mainHost, "/").Body.String()

	assert.NotContains(t, body, `class="site-header"`)
	assert.Contains(t, body, `src="/uploads/ana.jpg"`)
	assert.Contains(t, body, `href="tel:15550102000"`)
	assert.Contains(t, body, "/icons/linkedin.svg")
	assert.NotContains(t, body, "myspace.example")
	assert.Contains(t, body, "Send it")

	// ru has no photo of its own.
	ru := get(app, mainHost, "/ru").Body.String()
	assert.Contains(t, ru, `src="/uploads/ana.jpg"`)
}

func TestBusinessCardPlaceholder(t *testing.T) {
	app := newTestApp(t, t.TempDir(), nil)
	rec := get(app, mainHost, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Business Card")
}

func TestBlog(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	list := get(app, mainHost, "/blog").Body.String()
	assert.Less(t, strings.Index(list, "Second post"), strings.Index(list, "First post"))
	assert.Contains(t, list, "1/10/2024 · Ana")

	post := get(app, mainHost, "/blog/first-post")
	require.Equal(t, http.StatusOK, post.Code)
	assert.Contains(t, post.Body.String(), "<strong>world</strong>")
	assert.Contains(t, post.Body.String(), "<title>First post | Ana Nolan</title>")

	ru := get(app, mainHost, "/ru/blog/first-post")
	require.Equal(t, http.StatusOK, ru.Code)
	assert.Contains(t, ru.Body.String(), "10.01.2024")
	assert.Contains(t, ru.Body.String(), `href="/ru/blog"`)

	missing := get(app, mainHost, "/blog/nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "Page not found")
}

func TestNavigation(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	body := get(app, mainHost, "/blog/first-post").Body.String()
	assert.Contains(t, body, `<a href="/blog" class="nav-link active"`)
	assert.Contains(t, body, `<a href="/" class="nav-link">`)
	assert.Contains(t, body, `href="/ru/blog/first-post" hreflang="ru"`)
	assert.Contains(t, body, "© 2026 Ana Nolan. All rights reserved.")

	assert.Contains(t, body, `<link rel="alternate" hreflang="en" href="https://ananolan.com/blog/first-post">`)
	assert.Contains(t, body, `<link rel="alternate" hreflang="ru" href="https://ananolan.com/ru/blog/first-post">`)

	taxes := get(app, taxesHost, "/ru/services").Body.String()
	assert.Contains(t, taxes, `<a href="/ru/services" class="nav-link active"`)
	assert.Contains(t, taxes, `<link rel="alternate" hreflang="en" href="https://taxes.ananolan.com/services">`)
	assert.Contains(t, taxes, `href="/services" hreflang="en"`)
	assert.Contains(t, taxes, `<link rel="canonical" href="https://taxes.ananolan.com/ru/services">`)
}

func TestTaxesLandingSectionNav(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	body := get(app, taxesHost, "/").Body.String()
	assert.Contains(t, body, `<nav class="section-nav" aria-label="On this page" data-scroll-spy>`)
	assert.NotContains(t, body, `<nav class="nav" data-scroll-spy>`)

	last := -1
	for _, s := range []struct{ id, label string }{
		{"about", "About Us"},
		{"services", "Services"},
		{"pricing", "Pricing"},
		{"contact-form", "Get in Touch"},
	} {
		link := `<a href="#` + s.id + `" class="section-link">` + s.label + `</a>`
		i := strings.Index(body, link)
		require.NotEqual(t, -1, i, link)
		assert.Greater(t, i, last, link)
		last = i
		assert.Contains(t, body, `id="`+s.id+`"`)
	}

	ru := get(app, taxesHost, "/ru").Body.String()
	assert.Contains(t, ru, `<a href="#pricing" class="section-link">Цены</a>`)

	// Pages without in-page sections get no scroll-spy.
	assert.NotContains(t, get(app, taxesHost, "/services").Body.String(), "data-scroll-spy")
}

func TestContactPages(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	main := get(app, mainHost, "/contact").Body.String()
	assert.Contains(t, main, "Say hello")
	assert.Contains(t, main, `action="/__forms.html"`)
	assert.Contains(t, main, `name="bot-field"`)

	taxes := get(app, taxesHost, "/contact")
	require.Equal(t, http.StatusOK, taxes.Code)
	assert.Contains(t, taxes.Body.String(), "data-contact-form")
}

func TestTaxesServices(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	list := get(app, taxesHost, "/services").Body.String()
	assert.Less(t, strings.Index(list, "Tax returns"), strings.Index(list, "Bookkeeping"))
	assert.NotContains(t, list, "Hidden")
	assert.Contains(t, list, "From $200")

	detail := get(app, taxesHost, "/services/bookkeeping")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "Bookkeeping details.")
	assert.Contains(t, detail.Body.String(), `href="/#contact-form"`)

	assert.Equal(t, http.StatusNotFound, get(app, taxesHost, "/services/hidden").Code)
	assert.Equal(t, http.StatusNotFound, get(app, taxesHost, "/services/missing").Code)
}

func TestCMSConfigBridge(t *testing.T) {
	root := seedSite(t)
	app := newTestApp(t, root, nil)

	for _, host := range []string{mainHost, taxesHost} {
		for _, path := range []string{"/config.yml", "/admin/config.yml"} {
			rec := get(app, host, path)
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, "text/yaml", rec.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=0, must-revalidate", rec.Header().Get("Cache-Control"))
			assert.Contains(t, rec.Body.String(), "git-gateway")
		}
	}

	require.NoError(t, os.Remove(filepath.Join(root, "public", "admin", "config.yml")))
	rec := get(app, mainHost, "/admin/config.yml")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Config not found")
}

func TestAdminAndPublicFiles(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	for _, path := range []string{"/admin", "/admin/"} {
		rec := get(app, mainHost, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "admin")
	}

	robots := get(app, taxesHost, "/robots.txt")
	require.Equal(t, http.StatusOK, robots.Code)
	assert.Contains(t, robots.Body.String(), "User-agent")

	assert.Equal(t, http.StatusNotFound, get(app, mainHost, "/missing.png").Code)
}

func TestMissingFileFollowsAcceptLanguage(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/missing.png", nil)
	req.Host = mainHost
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Страница не найдена")
	assert.Contains(t, rec.Body.String(), `<html lang="ru"`)

	// Locale-routed paths ignore the header.
	req = httptest.NewRequest(http.MethodGet, "/missing-page", nil)
	req.Host = mainHost
	req.Header.Set("Accept-Language", "ru")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestRequestLoggingKnownHost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app, err := SetupRouter(Options{Config: testConfig(seedSite(t)), Logger: zap.New(core)})
	require.NoError(t, err)

	get(app, mainHost, "/")
	get(app, "taxes.ananolan.local:3000", "/")
	get(app, "preview.example.org", "/ru")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 3)

	want := []struct {
		host  string
		known bool
		site  string
	}{
		{mainHost, true, "main"},
		{"taxes.ananolan.local:3000", true, "taxes"},
		{"preview.example.org", false, "main"},
	}
	for i, w := range want {
		fields := entries[i].ContextMap()
		assert.Equal(t, w.host, fields["host"])
		assert.Equal(t, w.known, fields["known_host"], w.host)
		assert.Equal(t, w.site, fields["site"], w.host)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)
	rec := get(app, taxesHost, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFormEndpoint(t *testing.T) {
	saver := &recordingSaver{}
	app := newTestApp(t, seedSite(t), saver)

	values := url.Values{
		"form-name": {"contact"},
		"name":      {"Ann"},
		"email":     {"ann@example.com"},
		"message":   {"Hi"},
	}
	req := httptest.NewRequest(http.MethodPost, "/__forms.html", strings.NewReader(values.Encode()))
	req.Host = taxesHost
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, saver.subs, 1)
	assert.Equal(t, "Ann", saver.subs[0].Name)
}

func TestSitemapAndPaths(t *testing.T) {
	app := newTestApp(t, seedSite(t), nil)

	mainPaths, err := app.Paths(context.Background(), hosts.Main)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/", "/blog", "/contact", "/blog/second-post", "/blog/first-post", "/about",
		"/ru", "/ru/blog", "/ru/contact", "/ru/blog/second-post", "/ru/blog/first-post", "/ru/about",
	}, mainPaths)

	taxesPaths, err := app.Paths(context.Background(), hosts.Taxes)
	require.NoError(t, err)
	assert.Contains(t, taxesPaths, "/services/bookkeeping")
	assert.Contains(t, taxesPaths, "/ru/faq")
	assert.NotContains(t, taxesPaths, "/services/hidden")

	rec := get(app, taxesHost, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<loc>https://taxes.ananolan.com/services/returns</loc>")
	assert.NotContains(t, rec.Body.String(), "ananolan.com/blog")
}

func TestIsActive(t *testing.T) {
	assert.True(t, isActive("/", "/", true))
	assert.False(t, isActive("/blog", "/", true))
	assert.True(t, isActive("/blog/post", "/blog", false))
	assert.False(t, isActive("/blogroll", "/blog", false))
}
