package cms

import (
	"context"
	"math"
	"path"
	"sort"

	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
)

// BlogPosts lists a site's posts for locale, newest first. Posts without a
// parseable date go last; equal dates keep slug order.
func (r *Repository) BlogPosts(ctx context.Context, site hosts.Site, locale i18n.Locale) ([]*Doc[BlogFrontmatter], error) {
	slugs, err := r.LocalizedSlugs(ctx, site, Blog, locale)
	if err != nil {
		return nil, err
	}

	posts := make([]*Doc[BlogFrontmatter], 0, len(slugs))
	for _, slug := range slugs {
		doc, err := GetBySlug[BlogFrontmatter](ctx, r, site, Blog, locale, slug)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			posts = append(posts, doc)
		}
	}

	SortByDateDesc(posts)
	return posts, nil
}

// SortByDateDesc orders posts newest first, stable for ties.
func SortByDateDesc(posts []*Doc[BlogFrontmatter]) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Frontmatter.PublishedAt(), posts[j].Frontmatter.PublishedAt()
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// BlogPost is GetBySlug for the blog collection.
func (r *Repository) BlogPost(ctx context.Context, site hosts.Site, locale i18n.Locale, slug string) (*Doc[BlogFrontmatter], error) {
	return GetBySlug[BlogFrontmatter](ctx, r, site, Blog, locale, slug)
}

// BusinessCard loads main/business-card/<locale>.md. The photo falls back to
// the default locale's photo when empty.
func (r *Repository) BusinessCard(ctx context.Context, locale i18n.Locale) (*Doc[BusinessCard], error) {
	if !r.locales.Contains(string(locale)) {
		return nil, nil
	}
	doc, err := localized[BusinessCard](ctx, r, string(locale), locale, func(l i18n.Locale) string {
		return path.Join(businessCardDir, string(l)+".md")
	})
	if doc != nil {
		doc.Slug = string(doc.Locale)
	}
	return doc, err
}

// TaxesHome loads taxes/home/<locale>.md. With no file in either locale the
// built-in landing content is returned; a document without pricing gets
// the built-in plans.
func (r *Repository) TaxesHome(ctx context.Context, locale i18n.Locale) (*Doc[TaxesHome], error) {
	var doc *Doc[TaxesHome]
	if r.locales.Contains(string(locale)) {
		var err error
		doc, err = localized[TaxesHome](ctx, r, string(locale), locale, func(l i18n.Locale) string {
			return path.Join(taxesHomeDir, string(l)+".md")
		})
		if err != nil {
			return nil, err
		}
	}

	if doc == nil {
		return &Doc[TaxesHome]{
			Slug:        string(r.locales.Default()),
			Locale:      r.locales.Default(),
			Frontmatter: DefaultTaxesHome(),
		}, nil
	}
	doc.Slug = string(doc.Locale)
	if len(doc.Frontmatter.Pricing) == 0 {
		doc.Frontmatter.Pricing = DefaultTaxesHome().Pricing
	}
	return doc, nil
}

// TaxesServices lists the services catalogue for locale ordered by the
// order field, then title. Drafts are skipped unless includeDrafts.
func (r *Repository) TaxesServices(ctx context.Context, locale i18n.Locale, includeDrafts bool) ([]*Doc[Service], error) {
	slugs, err := r.LocalizedSlugs(ctx, hosts.Taxes, Services, locale)
	if err != nil {
		return nil, err
	}

	services := make([]*Doc[Service], 0, len(slugs))
	for _, slug := range slugs {
		doc, err := GetBySlug[Service](ctx, r, hosts.Taxes, Services, locale, slug)
		if err != nil {
			return nil, err
		}
		if doc == nil || (doc.Frontmatter.Draft && !includeDrafts) {
			continue
		}
		services = append(services, doc)
	}

	sort.SliceStable(services, func(i, j int) bool {
		a, b := orderKey(services[i].Frontmatter.Order), orderKey(services[j].Frontmatter.Order)
		if a != b {
			return a < b
		}
		return services[i].Frontmatter.Title < services[j].Frontmatter.Title
	})
	return services, nil
}

// TaxesService returns one published service, or nil.
func (r *Repository) TaxesService(ctx context.Context, locale i18n.Locale, slug string) (*Doc[Service], error) {
	doc, err := GetBySlug[Service](ctx, r, hosts.Taxes, Services, locale, slug)
	if err != nil || doc == nil || doc.Frontmatter.Draft {
		return nil, err
	}
	return doc, nil
}

// Unordered services sort after ordered ones.
func orderKey(order int) int {
	if order <= 0 {
		return math.MaxInt
	}
	return order
}
