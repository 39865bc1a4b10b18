package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
	"github.com/ZacxDev/nolan-sites/markdown"
)

const excerptLength = 160

var socialIcons = map[string]string{
	"linkedin":  "/icons/linkedin.svg",
	"facebook":  "/icons/facebook.svg",
	"instagram": "/icons/instagram.svg",
}

type socialLink struct {
	Platform string
	URL      string
	Icon     string
}

type postView struct {
	Title       string
	Href        string
	Meta        string
	Description string
	Image       string
}

func localeParam(ps httprouter.Params) i18n.Locale {
	return i18n.Locale(ps.ByName("locale"))
}

// mainHome is the business card. It has no header or footer.
func (a *App) mainHome(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	doc, err := a.content.BusinessCard(r.Context(), locale)
	if err != nil {
		return nil, err
	}

	view := &View{
		Template: "pages/business_card",
		Bare:     true,
		Data: map[string]interface{}{
			"hasCard": false,
			"card":    cms.BusinessCard{},
			"telHref": "",
			"socials": []socialLink{},
		},
	}
	if doc == nil {
		return view, nil
	}

	card := doc.Frontmatter
	card.Photo = cms.MediaSrc(card.Photo)

	var socials []socialLink
	for _, s := range card.Social {
		icon, ok := socialIcons[strings.ToLower(s.Platform)]
		if !ok {
			continue
		}
		socials = append(socials, socialLink{Platform: s.Platform, URL: s.URL, Icon: icon})
	}

	view.Description = card.Subtitle
	view.Form = &ContactForm{Variant: "business", SubmitText: card.ContactSubmitText}
	view.Data["hasCard"] = true
	view.Data["card"] = card
	view.Data["telHref"] = card.TelHref()
	view.Data["socials"] = socials
	return view, nil
}

func (a *App) blogList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	posts, err := a.content.BlogPosts(r.Context(), hosts.Main, locale)
	if err != nil {
		return nil, err
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, a.postView(locale, p))
	}

	return &View{
		Template: "pages/blog_list",
		Title:    a.messages.Message(locale, "blog.title"),
		Data: map[string]interface{}{
			"posts":    views,
			"hasPosts": len(views) > 0,
		},
	}, nil
}

func (a *App) blogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	locale := localeParam(ps)
	doc, err := a.content.BlogPost(r.Context(), hosts.Main, locale, ps.ByName("slug"))
	if err != nil || doc == nil {
		return nil, err
	}

	post := a.postView(locale, doc)
	return &View{
		Template:    "pages/blog_post",
		Title:       post.Title,
		Description: post.Description,
		Data: map[string]interface{}{
			"post":     post,
			"body":     markdown.ToHTML(doc.Body),
			"backHref": a.hosts.ExternalPath(locale, "/blog"),
		},
	}, nil
}

func (a *App) postView(locale i18n.Locale, doc *cms.Doc[cms.BlogFrontmatter]) postView {
	fm := doc.Frontmatter

	title := fm.Title
	if title == "" {
		title = cms.TitleFromSlug(doc.Slug)
	}
	description := fm.Description
	if description == "" {
		description = markdown.Excerpt(doc.Body, excerptLength)
	}

	meta := i18n.FormatDate(fm.PublishedAt(), locale)
	if fm.Author != "" {
		if meta != "" {
			meta += " · "
		}
		meta += fm.Author
	}

	return postView{
		Title:       title,
		Href:        a.hosts.ExternalPath(locale, "/blog/"+doc.Slug),
		Meta:        meta,
		Description: description,
		Image:       cms.MediaSrc(fm.Image),
	}
}

// contentPage renders a document from <site>/pages. A fixed slug of
// "contact" adds the contact form and renders even without a document.
func (a *App) contentPage(site hosts.Site, fixed string) Page {
	return PageFunc(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
		locale := localeParam(ps)
		slug := fixed
		if slug == "" {
			slug = ps.ByName("slug")
		}

		doc, err := a.content.Page(r.Context(), site, locale, slug)
		if err != nil {
			return nil, err
		}

		isContact := slug == "contact"
		if doc == nil && !isContact {
			return nil, nil
		}

		view := &View{
			Template: "pages/article",
			Data:     map[string]interface{}{"body": template.HTML("")},
		}
		if doc != nil {
			view.Title = doc.Frontmatter.Title
			view.Description = doc.Frontmatter.Description
			view.Data["body"] = markdown.ToHTML(doc.Body)
		}
		if view.Title == "" {
			view.Title = cms.TitleFromSlug(slug)
		}
		if isContact {
			if doc == nil {
				view.Title = a.messages.Message(locale, navKey(site)+".contact")
			}
			view.Form = &ContactForm{}
		}
		view.Data["heading"] = view.Title
		return view, nil
	})
}

func navKey(site hosts.Site) string {
	if site == hosts.Taxes {
		return "taxesNav"
	}
	return "nav"
}
