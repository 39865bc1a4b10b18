package utils

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemapContent lists paths under origin, stamped with today's date.
// The result includes the XML header.
func GenerateSitemapContent(origin string, paths []string) (string, error) {
	return GenerateSitemapAt(origin, paths, time.Now())
}

func GenerateSitemapAt(origin string, paths []string, now time.Time) (string, error) {
	baseURL := strings.TrimRight(origin, "/")
	lastMod := now.Format("2006-01-02")

	sitemap := Sitemap{Xmlns: sitemapNS}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		url := Url{Loc: baseURL + p, LastMod: lastMod}
		if p == "/" {
			url.Priority = "1.0"
		}
		sitemap.Urls = append(sitemap.Urls, url)
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}
	return xml.Header + string(xmlOutput), nil
}
