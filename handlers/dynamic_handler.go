package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/config"
	"github.com/ZacxDev/nolan-sites/forms"
	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
	"github.com/ZacxDev/nolan-sites/templates"
)

type Options struct {
	Config   *config.SiteConfig
	Content  *cms.Repository
	Messages *i18n.Catalog
	// Forms handles posts to Config.FormEndpoint. Nil disables the endpoint.
	Forms     http.Handler
	Templates *templates.Set
	// Scripts are the compiled client scripts, by target name.
	Scripts map[string]string
	Logger  *zap.Logger
	Now     func() time.Time
}

// App serves both sites. Requests go through request logging, then host
// routing, then the mux router on internal paths.
type App struct {
	cfg      *config.SiteConfig
	content  *cms.Repository
	messages *i18n.Catalog
	views    *templates.Set
	scripts  []string
	logger   *zap.Logger
	now      func() time.Time

	locales i18n.Set
	hosts   hosts.Router

	router  *mux.Router
	handler http.Handler
}

func SetupRouter(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("handlers: config is required")
	}
	cfg := opts.Config

	locales, err := cfg.LocaleSet()
	if err != nil {
		return nil, errors.Wrap(err, "locales")
	}

	a := &App{
		cfg:      cfg,
		content:  opts.Content,
		messages: opts.Messages,
		views:    opts.Templates,
		logger:   opts.Logger,
		now:      opts.Now,
		locales:  locales,
		hosts: hosts.Router{
			Hosts:   hosts.NewClassifier(cfg.Hosts.Main, cfg.Hosts.Taxes, cfg.Hosts.TaxesLocal),
			Locales: locales,
		},
	}
	if a.content == nil {
		a.content = cms.NewRepository(cfg.ContentDir, locales)
	}
	if a.messages == nil {
		if a.messages, err = i18n.LoadEmbedded(locales.Default()); err != nil {
			return nil, err
		}
	}
	if a.views == nil {
		a.views = templates.New()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	for _, src := range opts.Scripts {
		a.scripts = append(a.scripts, src)
	}
	sort.Strings(a.scripts)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(a.Custom404Handler)

	router.PathPrefix("/api/").Handler(a.apiRouter())
	if opts.Forms != nil {
		router.Handle(cfg.FormEndpoint, opts.Forms)
	}
	router.HandleFunc("/sitemap.xml", a.sitemap).Methods(http.MethodGet, http.MethodHead)

	router.PathPrefix("/static/").Handler(http.FileServer(http.Dir(cfg.AssetsDir)))
	router.HandleFunc(hosts.AdminIndexPath, a.adminIndex).Methods(http.MethodGet, http.MethodHead)
	public := http.FileServer(http.Dir(cfg.PublicDir))
	for _, prefix := range []string{"/uploads/", "/icons/", "/css/", "/admin/"} {
		router.PathPrefix(prefix).Handler(public)
	}

	loc := "/{locale:" + strings.Join(localeCodes(locales), "|") + "}"
	get := func(path string, p Page) {
		router.Handle(path, a.page(p)).Methods(http.MethodGet, http.MethodHead)
	}

	get(loc, PageFunc(a.mainHome))
	get(loc+"/blog", PageFunc(a.blogList))
	get(loc+"/blog/{slug}", PageFunc(a.blogPost))
	get(loc+"/contact", a.contentPage(hosts.Main, "contact"))
	get(loc+"/{slug}", a.contentPage(hosts.Main, ""))

	taxes := hosts.TaxesPrefix + loc
	get(taxes, PageFunc(a.taxesHome))
	get(taxes+"/services", PageFunc(a.taxesServices))
	get(taxes+"/services/{slug}", PageFunc(a.taxesService))
	get(taxes+"/contact", a.contentPage(hosts.Taxes, "contact"))
	get(taxes+"/{slug}", a.contentPage(hosts.Taxes, ""))

	a.router = router
	a.handler = requestLogging(a.logger, a.hosts.Hosts)(a.hostRouting(router))
	return a, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func localeCodes(s i18n.Set) []string {
	var codes []string
	for _, l := range s.Locales() {
		codes = append(codes, string(l))
	}
	return codes
}

func (a *App) page(p Page) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		view, err := p.Render(w, r, muxParams(r))
		if err != nil {
			a.serverError(w, r, err)
			return
		}
		if view == nil {
			a.Custom404Handler(w, r)
			return
		}
		a.write(w, r, http.StatusOK, view)
	})
}

func (a *App) write(w http.ResponseWriter, r *http.Request, status int, view *View) {
	body, err := a.render(r, view)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("render page",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// render executes the page template, then the header and footer partials,
// then the base layout, all sharing one plush context.
func (a *App) render(r *http.Request, view *View) ([]byte, error) {
	info := requestInfoFrom(r.Context(), a.locales)
	ctx := a.layoutContext(info)

	brand := a.brand(info.Site)
	title := brand
	if view.Title != "" {
		title = view.Title + " | " + brand
	}
	ctx.Set("title", title)
	ctx.Set("description", view.Description)
	ctx.Set("showChrome", !view.Bare)

	for k, v := range view.Data {
		ctx.Set(k, v)
	}

	form := template.HTML("")
	if view.Form != nil {
		submit := view.Form.SubmitText
		if submit == "" {
			submit = a.messages.Message(info.Locale, "contact.submit")
		}
		variant := view.Form.Variant
		if variant == "" {
			variant = "default"
		}
		ctx.Set("formVariant", variant)
		ctx.Set("submitText", submit)
		var err error
		if form, err = a.views.Exec("partials/contact_form", ctx); err != nil {
			return nil, err
		}
	}
	ctx.Set("contactForm", form)

	yield, err := a.views.Exec(view.Template, ctx)
	if err != nil {
		return nil, err
	}
	ctx.Set("yield", yield)

	header, err := a.views.Exec("partials/header", ctx)
	if err != nil {
		return nil, err
	}
	ctx.Set("header", header)

	footer, err := a.views.Exec("partials/footer", ctx)
	if err != nil {
		return nil, err
	}
	ctx.Set("footer", footer)

	page, err := a.views.Exec("layouts/base", ctx)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace([]byte(page)), nil
}

type alternate struct {
	Hreflang string
	Href     string
}

func (a *App) layoutContext(info *RequestInfo) *plush.Context {
	locale := info.Locale
	origin := strings.TrimRight(a.origin(info.Site), "/")
	brand := a.brand(info.Site)

	ctx := plush.NewContext()
	ctx.Set("t", a.messages.Translator(locale))
	ctx.Set("lang", string(locale))
	ctx.Set("brand", brand)
	ctx.Set("bodyClass", "site-"+string(info.Site))
	ctx.Set("homeHref", a.hosts.ExternalPath(locale, "/"))
	ctx.Set("navItems", a.navItems(info))
	ctx.Set("langOptions", a.locales.Options(locale, info.ExternalPath))
	ctx.Set("copyright", a.messages.Format(locale, "footer.copyright", map[string]string{
		"year":  strconv.Itoa(a.now().Year()),
		"brand": brand,
	}))
	ctx.Set("privacyHref", a.hosts.ExternalPath(locale, "/privacy"))
	ctx.Set("termsHref", a.hosts.ExternalPath(locale, "/terms"))
	ctx.Set("canonical", origin+info.ExternalPath)

	alternates := []alternate{{Hreflang: string(locale), Href: origin + info.ExternalPath}}
	for _, l := range a.locales.Alternates(locale) {
		alternates = append(alternates, alternate{
			Hreflang: string(l),
			Href:     origin + a.locales.SwitchPath(info.ExternalPath, l),
		})
	}
	ctx.Set("alternates", alternates)
	ctx.Set("scripts", a.scripts)

	ctx.Set("formEndpoint", a.cfg.FormEndpoint)
	ctx.Set("formName", forms.ContactForm)
	return ctx
}

func (a *App) brand(site hosts.Site) string {
	if site == hosts.Taxes {
		return a.cfg.Brand.TaxesTitle
	}
	return a.cfg.Brand.MainTitle
}

func (a *App) origin(site hosts.Site) string {
	if site == hosts.Taxes {
		return a.cfg.Origins.Taxes
	}
	return a.cfg.Origins.Main
}
