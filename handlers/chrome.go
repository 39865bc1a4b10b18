package handlers

import (
	"strings"

	"github.com/ZacxDev/nolan-sites/hosts"
)

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

type navLink struct {
	key  string
	path string
}

var mainNav = []navLink{
	{"nav.home", "/"},
	{"nav.about", "/about"},
	{"nav.pricing", "/pricing"},
	{"nav.contact", "/contact"},
	{"nav.blog", "/blog"},
}

var taxesNav = []navLink{
	{"taxesNav.home", "/"},
	{"taxesNav.services", "/services"},
	{"taxesNav.pricing", "/pricing"},
	{"taxesNav.faq", "/faq"},
	{"taxesNav.contact", "/contact"},
}

func (a *App) navItems(info *RequestInfo) []NavItem {
	links := mainNav
	if info.Site == hosts.Taxes {
		links = taxesNav
	}

	items := make([]NavItem, 0, len(links))
	for _, l := range links {
		href := a.hosts.ExternalPath(info.Locale, l.path)
		items = append(items, NavItem{
			Label:  a.messages.Message(info.Locale, l.key),
			Href:   href,
			Active: isActive(info.ExternalPath, href, l.path == "/"),
		})
	}
	return items
}

// isActive matches the current path exactly, or by prefix for sections
// other than home.
func isActive(current, href string, home bool) bool {
	if current == href {
		return true
	}
	return !home && strings.HasPrefix(current, href+"/")
}
