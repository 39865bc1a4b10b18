// Package hosts decides which of the two sites and which locale a request
// belongs to, and maps browser-visible paths onto internal routes.
package hosts

import (
	"net"
	"regexp"
	"strings"

	"github.com/ZacxDev/nolan-sites/i18n"
)

// Site is one of the two logical sites served from the same process.
type Site string

const (
	Main  Site = "main"
	Taxes Site = "taxes"
)

const (
	// CMSConfigPath is the internal route serving the CMS YAML config.
	CMSConfigPath = "/api/cms-config"
	// AdminIndexPath is the CMS admin entry page inside the public dir.
	AdminIndexPath = "/admin/index.html"
	// TaxesPrefix is the internal path prefix for the taxes site.
	TaxesPrefix = "/taxes"
)

// Kind tells the middleware what to do with a request.
type Kind int

const (
	// Pass serves the request path as-is (api, assets, admin files).
	Pass Kind = iota
	// Rewrite serves Decision.Path instead of the request path.
	Rewrite
	// Redirect sends the client to Decision.Location.
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Pass:
		return "pass"
	case Rewrite:
		return "rewrite"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Router.Route.
type Decision struct {
	Kind     Kind
	Site     Site
	Locale   i18n.Locale
	Path     string
	Location string
}

// Classifier recognizes the taxes and main hostnames.
type Classifier struct {
	TaxesHosts []string
	MainHosts  []string
}

// NewClassifier builds a classifier for the configured hostnames.
// localhost and 127.0.0.1 are always main-site hosts.
func NewClassifier(mainHost string, taxesHosts ...string) Classifier {
	return Classifier{
		TaxesHosts: taxesHosts,
		MainHosts:  []string{mainHost, "localhost", "127.0.0.1"},
	}
}

// IsTaxes reports whether host names the taxes site: one of the configured
// hosts or anything under "taxes.".
func (c Classifier) IsTaxes(host string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}
	if strings.HasPrefix(host, "taxes.") {
		return true
	}
	bare := stripPort(host)
	for _, h := range c.TaxesHosts {
		if h != "" && bare == strings.ToLower(h) {
			return true
		}
	}
	return false
}

// IsMain reports whether host is a known main-site host.
func (c Classifier) IsMain(host string) bool {
	bare := stripPort(host)
	if bare == "" {
		return false
	}
	for _, h := range c.MainHosts {
		if h != "" && strings.EqualFold(bare, h) {
			return true
		}
	}
	return false
}

// SiteFor returns the site a host serves. Unknown hosts get the main site.
func (c Classifier) SiteFor(host string) Site {
	if c.IsTaxes(host) {
		return Taxes
	}
	return Main
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

var fileWithExt = regexp.MustCompile(`/[^/]+\.[^/]+$`)

// Router maps (host, path) to an internal route.
type Router struct {
	Hosts   Classifier
	Locales i18n.Set
}

// Route applies the routing rules in order: CMS config bridge, pass-through
// paths, admin index, taxes host, then locale-prefix routing for the main site.
func (r Router) Route(host, path string) Decision {
	if path == "" {
		path = "/"
	}
	site := r.Hosts.SiteFor(host)

	if path == "/config.yml" || path == "/admin/config.yml" {
		return Decision{Kind: Rewrite, Site: site, Path: CMSConfigPath}
	}

	if isPassThrough(path) {
		return Decision{Kind: Pass, Site: site, Path: path}
	}

	switch {
	case path == "/admin" || path == "/admin/":
		return Decision{Kind: Rewrite, Site: site, Path: AdminIndexPath}
	case strings.HasPrefix(path, "/admin/"):
		return Decision{Kind: Pass, Site: site, Path: path}
	}

	locale, rest := r.splitLocale(path)

	if site == Taxes {
		return Decision{
			Kind:   Rewrite,
			Site:   Taxes,
			Locale: locale,
			Path:   TaxesPrefix + "/" + string(locale) + rest,
		}
	}

	// As-needed prefixing: the default locale never appears in the URL.
	def := r.Locales.Default()
	if segments := splitSegments(path); len(segments) > 0 && segments[0] == string(def) {
		// Rebuilt from segments so "/en//host" cannot yield "//host".
		location := joinSegments(segments[1:])
		if location == "" {
			location = "/"
		}
		return Decision{Kind: Redirect, Site: Main, Locale: def, Location: location}
	}

	return Decision{
		Kind:   Rewrite,
		Site:   Main,
		Locale: locale,
		Path:   "/" + string(locale) + rest,
	}
}

// splitLocale pulls a non-default locale prefix off path. rest is either
// empty or starts with "/".
func (r Router) splitLocale(path string) (i18n.Locale, string) {
	segments := splitSegments(path)
	if len(segments) > 0 {
		first := segments[0]
		if first != string(r.Locales.Default()) && r.Locales.Contains(first) {
			return i18n.Locale(first), joinSegments(segments[1:])
		}
	}
	return r.Locales.Default(), joinSegments(segments)
}

func isPassThrough(path string) bool {
	return strings.HasPrefix(path, "/api") ||
		strings.HasPrefix(path, "/_next") ||
		strings.HasPrefix(path, "/static") ||
		strings.HasPrefix(path, "/uploads") ||
		fileWithExt.MatchString(path)
}

func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinSegments(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return "/" + strings.Join(segments, "/")
}

// ExternalPath is the inverse of Route for a site page: the path a browser
// would request for internal site path p (without locale) in locale l.
func (r Router) ExternalPath(l i18n.Locale, p string) string {
	if p == "" {
		p = "/"
	}
	return r.Locales.LocalizedPath(l, p)
}
