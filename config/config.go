package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ZacxDev/nolan-sites/i18n"
)

// EnvPrefix prefixes environment overrides, e.g. NOLAN_LISTEN.
const EnvPrefix = "NOLAN"

type JavascriptTarget struct {
	Source string `mapstructure:"source" yaml:"source"`
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
}

type Hosts struct {
	Main       string `mapstructure:"main" yaml:"main"`
	Taxes      string `mapstructure:"taxes" yaml:"taxes"`
	TaxesLocal string `mapstructure:"taxes_local" yaml:"taxes_local"`
}

// Origins are the public absolute URLs of each site, used for sitemaps
// and canonical links.
type Origins struct {
	Main  string `mapstructure:"main" yaml:"main"`
	Taxes string `mapstructure:"taxes" yaml:"taxes"`
}

type Brand struct {
	LastName   string `mapstructure:"last_name" yaml:"last_name"`
	MainTitle  string `mapstructure:"main_title" yaml:"main_title"`
	TaxesTitle string `mapstructure:"taxes_title" yaml:"taxes_title"`
}

type SiteConfig struct {
	Listen        string                      `mapstructure:"listen" yaml:"listen"`
	ContentDir    string                      `mapstructure:"content_dir" yaml:"content_dir"`
	PublicDir     string                      `mapstructure:"public_dir" yaml:"public_dir"`
	AssetsDir     string                      `mapstructure:"assets_dir" yaml:"assets_dir"`
	MessagesDir   string                      `mapstructure:"messages_dir" yaml:"messages_dir"`
	AdminConfig   string                      `mapstructure:"admin_config" yaml:"admin_config"`
	FormsDB       string                      `mapstructure:"forms_db" yaml:"forms_db"`
	FormEndpoint  string                      `mapstructure:"form_endpoint" yaml:"form_endpoint"`
	Locales       []string                    `mapstructure:"locales" yaml:"locales"`
	DefaultLocale string                      `mapstructure:"default_locale" yaml:"default_locale"`
	Hosts         Hosts                       `mapstructure:"hosts" yaml:"hosts"`
	Origins       Origins                     `mapstructure:"origins" yaml:"origins"`
	Brand         Brand                       `mapstructure:"brand" yaml:"brand"`
	Javascript    map[string]JavascriptTarget `mapstructure:"javascript" yaml:"javascript"`
	LogLevel      string                      `mapstructure:"log_level" yaml:"log_level"`
	Dev           bool                        `mapstructure:"dev" yaml:"dev"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":9010")
	v.SetDefault("content_dir", "content")
	v.SetDefault("public_dir", "public")
	v.SetDefault("assets_dir", ".assets")
	v.SetDefault("messages_dir", "")
	v.SetDefault("admin_config", "public/admin/config.yml")
	v.SetDefault("forms_db", "forms.db")
	v.SetDefault("form_endpoint", "/__forms.html")
	v.SetDefault("locales", []string{"en", "ru"})
	v.SetDefault("default_locale", "en")
	v.SetDefault("hosts.main", "ananolan.com")
	v.SetDefault("hosts.taxes", "taxes.ananolan.com")
	v.SetDefault("hosts.taxes_local", "taxes.ananolan.local")
	v.SetDefault("origins.main", "https://ananolan.com")
	v.SetDefault("origins.taxes", "https://taxes.ananolan.com")
	v.SetDefault("brand.last_name", "Nolan")
	v.SetDefault("brand.main_title", "Ana Nolan")
	v.SetDefault("brand.taxes_title", "Ana Nolan Taxes")
	v.SetDefault("javascript", map[string]interface{}{
		"contact": map[string]interface{}{"source": "assets/js/contact-form.js", "out_dir": "static/js"},
		"nav":     map[string]interface{}{"source": "assets/js/nav.js", "out_dir": "static/js"},
	})
	v.SetDefault("log_level", "info")
	v.SetDefault("dev", false)
}

// Load reads file (or ./site.yaml when file is empty) over the defaults,
// then applies NOLAN_* environment overrides. A missing default file is
// not an error. The second return value is the config file actually used.
func Load(file string) (*SiteConfig, string, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, "", errors.Wrap(err, "read config")
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// LocaleSet builds the i18n set from Locales and DefaultLocale.
func (c *SiteConfig) LocaleSet() (i18n.Set, error) {
	return i18n.NewSet(c.DefaultLocale, c.Locales...)
}

// Validate checks required settings and normalizes DefaultLocale to one
// of the configured locale codes ("EN-us" becomes "en").
func (c *SiteConfig) Validate() error {
	if len(c.Locales) == 0 {
		return errors.New("invalid locales: at least one locale is required")
	}
	supported, err := i18n.NewSet(c.Locales[0], c.Locales...)
	if err != nil {
		return errors.Wrap(err, "invalid locales")
	}
	def, ok := supported.Parse(c.DefaultLocale)
	if !ok {
		return errors.Errorf("invalid locales: default locale %q is not in %v", c.DefaultLocale, c.Locales)
	}
	c.DefaultLocale = string(def)
	if _, err := c.LocaleSet(); err != nil {
		return errors.Wrap(err, "invalid locales")
	}
	if c.Hosts.Taxes == "" {
		return errors.New("hosts.taxes is required")
	}
	if !strings.HasPrefix(c.FormEndpoint, "/") {
		return errors.Errorf("form_endpoint %q must start with /", c.FormEndpoint)
	}
	if c.ContentDir == "" {
		return errors.New("content_dir is required")
	}
	return nil
}
