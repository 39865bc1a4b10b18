package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/i18n"
	"github.com/ZacxDev/nolan-sites/markdown"
)

// serviceIcons cycle over the services grid in order.
var serviceIcons = []string{
	"building",
	"chart",
	"person",
	"chart",
	"calendar",
	"chart",
	"globe",
	"clock",
}

func serviceIcon(i int) string {
	return "/icons/" + serviceIcons[i%len(serviceIcons)] + ".svg"
}

type serviceView struct {
	Title            string
	ShortDescription string
	Price            string
	Href             string
	Icon             string
}

// landingSections are the in-page anchors of the taxes landing page, in
// document order. The scroll-spy script relies on that order.
var landingSections = []struct {
	id  string
	key string
}{
	{"about", "taxesHome.aboutLabel"},
	{"services", "taxesHome.servicesLabel"},
	{"pricing", "taxesHome.pricingLabel"},
	{"contact-form", "taxesHome.contactLabel"},
}

type sectionLink struct {
	ID    string
	Label string
}

type planView struct {
	Name        string
	Price       string
	Description string
	Features    []string
	Highlighted bool
}

func (a *App) taxesHome(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	doc, err := a.content.TaxesHome(r.Context(), locale)
	if err != nil {
		return nil, err
	}

	home := doc.Frontmatter
	home.HeroImage = cms.MediaSrc(home.HeroImage)
	home.AboutImage = cms.MediaSrc(home.AboutImage)

	servicesHref := a.hosts.ExternalPath(locale, "/services")
	services := make([]serviceView, 0, len(home.Services))
	for i, s := range home.Services {
		services = append(services, serviceView{
			Title:            s.Title,
			ShortDescription: s.Description,
			Href:             servicesHref,
			Icon:             serviceIcon(i),
		})
	}

	plans := make([]planView, 0, len(home.Pricing))
	for _, p := range home.Pricing {
		features := make([]string, 0, len(p.Features))
		for _, f := range p.Features {
			features = append(features, string(f))
		}
		plans = append(plans, planView{
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Features:    features,
			Highlighted: p.Highlighted,
		})
	}

	sections := make([]sectionLink, 0, len(landingSections))
	for _, s := range landingSections {
		sections = append(sections, sectionLink{ID: s.id, Label: a.messages.Message(locale, s.key)})
	}

	return &View{
		Template:    "pages/taxes_home",
		Description: home.HeroSubtitle,
		Form:        &ContactForm{Variant: "taxes"},
		Data: map[string]interface{}{
			"home":     home,
			"services": services,
			"pricing":  plans,
			"sections": sections,
		},
	}, nil
}

func (a *App) taxesServices(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	docs, err := a.content.TaxesServices(r.Context(), locale, false)
	if err != nil {
		return nil, err
	}

	services := make([]serviceView, 0, len(docs))
	for i, doc := range docs {
		services = append(services, a.serviceView(locale, i, doc))
	}

	return &View{
		Template:    "pages/services",
		Title:       a.messages.Message(locale, "taxesServices.pageTitle"),
		Description: a.messages.Message(locale, "taxesServices.pageSubtitle"),
		Data: map[string]interface{}{
			"services": services,
		},
	}, nil
}

func (a *App) taxesService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	doc, err := a.content.TaxesService(r.Context(), locale, ps.ByName("slug"))
	if err != nil || doc == nil {
		return nil, err
	}

	service := a.serviceView(locale, 0, doc)
	return &View{
		Template:    "pages/service",
		Title:       service.Title,
		Description: service.ShortDescription,
		Data: map[string]interface{}{
			"service":     service,
			"body":        markdown.ToHTML(doc.Body),
			"backHref":    a.hosts.ExternalPath(locale, "/services"),
			"contactHref": a.hosts.ExternalPath(locale, "/") + "#contact-form",
		},
	}, nil
}

func (a *App) serviceView(locale i18n.Locale, i int, doc *cms.Doc[cms.Service]) serviceView {
	fm := doc.Frontmatter
	title := fm.Title
	if title == "" {
		title = cms.TitleFromSlug(doc.Slug)
	}
	icon := serviceIcon(i)
	if fm.Icon != "" {
		icon = "/icons/" + fm.Icon + ".svg"
	}
	return serviceView{
		Title:            title,
		ShortDescription: fm.ShortDescription,
		Price:            fm.Price,
		Href:             a.hosts.ExternalPath(locale, "/services/"+doc.Slug),
		Icon:             icon,
	}
}
