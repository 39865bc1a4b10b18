package cms

import (
	"regexp"
	"strings"
	"time"

	"github.com/ZacxDev/nolan-sites/i18n"
)

// Doc is one Markdown document: its typed front matter and raw body.
// Locale is the locale the file was actually read from.
type Doc[T any] struct {
	Slug        string
	Locale      i18n.Locale
	Frontmatter T
	Body        string
}

// MediaFielder is implemented by front matter types whose media fields
// fall back individually to the default locale when empty.
type MediaFielder interface {
	MediaFields() []*string
}

type PageFrontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Layout      string `yaml:"layout"`
}

type BlogFrontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Author      string `yaml:"author"`
	Image       string `yaml:"image"`
}

func (b *BlogFrontmatter) MediaFields() []*string {
	return []*string{&b.Image}
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

// PublishedAt parses Date; the zero time means missing or unparseable.
func (b BlogFrontmatter) PublishedAt() time.Time {
	s := strings.TrimSpace(b.Date)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type SocialLink struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// BusinessCard is the main-site home page.
type BusinessCard struct {
	Name     string       `yaml:"name"`
	Subtitle string       `yaml:"subtitle"`
	Bio      string       `yaml:"bio"`
	Photo    string       `yaml:"photo"`
	Email    string       `yaml:"email"`
	Phone    string       `yaml:"phone"`
	Location string       `yaml:"location"`
	Social   []SocialLink `yaml:"social_links"`

	TaxesPromoTitle    string `yaml:"taxes_promo_title"`
	TaxesPromoSubtitle string `yaml:"taxes_promo_subtitle"`
	TaxesPromoCTAText  string `yaml:"taxes_promo_cta_text"`
	TaxesPromoCTAURL   string `yaml:"taxes_promo_cta_url"`
	TaxesHighlights    []Stat `yaml:"taxes_highlights"`

	BlogPromoTitle       string `yaml:"blog_promo_title"`
	BlogPromoSubtitle    string `yaml:"blog_promo_subtitle"`
	BlogPromoDescription string `yaml:"blog_promo_description"`
	BlogPromoCTAText     string `yaml:"blog_promo_cta_text"`
	BlogPromoCTAURL      string `yaml:"blog_promo_cta_url"`

	ContactFormTitle  string `yaml:"contact_form_title"`
	ContactSubmitText string `yaml:"contact_submit_text"`
}

func (c *BusinessCard) MediaFields() []*string {
	return []*string{&c.Photo}
}

var nonDigits = regexp.MustCompile(`\D`)

// TelHref is the tel: link for Phone with formatting stripped.
func (c BusinessCard) TelHref() string {
	return "tel:" + nonDigits.ReplaceAllString(c.Phone, "")
}

type Highlight struct {
	Text string `yaml:"text"`
}

type ServiceCard struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Feature is a pricing bullet. The CMS writes either a bare string or
// a {feature: ...} object.
type Feature string

func (f *Feature) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*f = Feature(s)
		return nil
	}
	var obj struct {
		Feature string `yaml:"feature"`
	}
	if err := unmarshal(&obj); err != nil {
		return err
	}
	*f = Feature(obj.Feature)
	return nil
}

type PricingPlan struct {
	Name        string    `yaml:"name"`
	Price       string    `yaml:"price"`
	Description string    `yaml:"description"`
	Features    []Feature `yaml:"features"`
	Highlighted bool      `yaml:"highlighted"`
}

// TaxesHome is the taxes-site landing page.
type TaxesHome struct {
	HeroTitle     string        `yaml:"hero_title"`
	HeroSubtitle  string        `yaml:"hero_subtitle"`
	HeroImage     string        `yaml:"hero_image"`
	Highlights    []Highlight   `yaml:"highlights"`
	IntroHeadline string        `yaml:"intro_headline"`
	IntroText     string        `yaml:"intro_text"`
	AboutHeadline string        `yaml:"about_headline"`
	AboutText     string        `yaml:"about_text"`
	AboutImage    string        `yaml:"about_image"`
	Services      []ServiceCard `yaml:"services"`
	Pricing       []PricingPlan `yaml:"pricing"`
}

func (h *TaxesHome) MediaFields() []*string {
	return []*string{&h.HeroImage, &h.AboutImage}
}

// Service is one entry of the taxes services catalogue.
type Service struct {
	Title            string `yaml:"title"`
	ShortDescription string `yaml:"short_description"`
	Price            string `yaml:"price"`
	Icon             string `yaml:"icon"`
	Order            int    `yaml:"order"`
	Draft            bool   `yaml:"draft"`
}

// MediaSrc makes an uploaded media path absolute to the site root.
func MediaSrc(p string) string {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "://") {
		return p
	}
	return "/" + p
}
