package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
	"github.com/ZacxDev/nolan-sites/utils"
)

// Paths lists every browser-visible page path of site in every locale:
// the fixed routes, then the content-backed ones.
func (a *App) Paths(ctx context.Context, site hosts.Site) ([]string, error) {
	ctx = cms.WithMemo(ctx)

	var paths []string
	seen := make(map[string]bool)
	add := func(l i18n.Locale, p string) {
		ext := a.hosts.ExternalPath(l, p)
		if !seen[ext] {
			seen[ext] = true
			paths = append(paths, ext)
		}
	}

	for _, l := range a.locales.Locales() {
		var err error
		if site == hosts.Taxes {
			err = a.taxesPaths(ctx, l, add)
		} else {
			err = a.mainPaths(ctx, l, add)
		}
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func (a *App) mainPaths(ctx context.Context, l i18n.Locale, add func(i18n.Locale, string)) error {
	add(l, "/")
	add(l, "/blog")
	add(l, "/contact")

	posts, err := a.content.BlogPosts(ctx, hosts.Main, l)
	if err != nil {
		return err
	}
	for _, p := range posts {
		add(l, "/blog/"+p.Slug)
	}
	return a.pagePaths(ctx, hosts.Main, l, "blog", add)
}

func (a *App) taxesPaths(ctx context.Context, l i18n.Locale, add func(i18n.Locale, string)) error {
	add(l, "/")
	add(l, "/services")
	add(l, "/contact")

	services, err := a.content.TaxesServices(ctx, l, false)
	if err != nil {
		return err
	}
	for _, s := range services {
		add(l, "/services/"+s.Slug)
	}
	return a.pagePaths(ctx, hosts.Taxes, l, "services", add)
}

// pagePaths adds the site's pages collection, skipping slugs shadowed by a
// fixed route.
func (a *App) pagePaths(ctx context.Context, site hosts.Site, l i18n.Locale, shadowed string, add func(i18n.Locale, string)) error {
	slugs, err := a.content.LocalizedSlugs(ctx, site, cms.Pages, l)
	if err != nil {
		return err
	}
	for _, s := range slugs {
		if s == shadowed || s == "contact" {
			continue
		}
		add(l, "/"+s)
	}
	return nil
}

func (a *App) sitemap(w http.ResponseWriter, r *http.Request) {
	info := requestInfoFrom(r.Context(), a.locales)

	paths, err := a.Paths(r.Context(), info.Site)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	content, err := utils.GenerateSitemapAt(a.origin(info.Site), paths, a.now())
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.logger.Debug("sitemap", zap.String("site", string(info.Site)), zap.Int("urls", len(paths)))
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(content))
	}
}
