package cmd

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/config"
	"github.com/ZacxDev/nolan-sites/handlers"
	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/javascript"
	"github.com/ZacxDev/nolan-sites/utils"
)

// notFoundProbe is a path no route serves, used to capture the 404 page.
const notFoundProbe = "/__not-found__"

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static version of both sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		logger.Info("building static sites", zap.String("out", out))

		scripts, err := javascript.CompileJSTarget(cfg.Javascript, cfg.AssetsDir)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		app, err := handlers.SetupRouter(handlers.Options{
			Config:   cfg,
			Messages: catalog,
			Scripts:  scripts,
			Logger:   logger.Named("http"),
		})
		if err != nil {
			return errors.Wrap(err, "setting up router")
		}

		server := httptest.NewServer(app)
		defer server.Close()

		for _, site := range []hosts.Site{hosts.Main, hosts.Taxes} {
			if err := buildSite(cmd.Context(), app, server, site, filepath.Join(out, string(site))); err != nil {
				return errors.Wrapf(err, "build %s", site)
			}
		}

		logger.Info("static sites generated", zap.String("out", out))
		return nil
	},
}

func buildSite(ctx context.Context, app *handlers.App, server *httptest.Server, site hosts.Site, dir string) error {
	host := siteHost(cfg, site)

	paths, err := app.Paths(ctx, site)
	if err != nil {
		return err
	}

	for _, route := range paths {
		if err := generateStaticPage(ctx, server, host, route, dir, http.StatusOK); err != nil {
			logger.Error("generate page", zap.String("site", string(site)), zap.String("path", route), zap.Error(err))
		}
	}
	if err := generateStaticPage(ctx, server, host, notFoundProbe, dir, http.StatusNotFound); err != nil {
		return err
	}

	sitemap, err := utils.GenerateSitemapContent(siteOrigin(cfg, site), paths)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "sitemap.xml"), []byte(sitemap)); err != nil {
		return err
	}

	if err := copyTree(cfg.PublicDir, dir); err != nil {
		return errors.Wrap(err, "copy public files")
	}
	if err := copyTree(filepath.Join(cfg.AssetsDir, "static"), filepath.Join(dir, "static")); err != nil {
		return errors.Wrap(err, "copy scripts")
	}
	return nil
}

func siteHost(c *config.SiteConfig, site hosts.Site) string {
	if site == hosts.Taxes {
		return c.Hosts.Taxes
	}
	return c.Hosts.Main
}

func siteOrigin(c *config.SiteConfig, site hosts.Site) string {
	if site == hosts.Taxes {
		return c.Origins.Taxes
	}
	return c.Origins.Main
}

// generateStaticPage fetches route with the site's Host header and writes
// it to <dir>/<route>/index.html, or <dir>/404.html for the 404 probe.
func generateStaticPage(ctx context.Context, server *httptest.Server, host, route, dir string, want int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+route, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Host = host

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return errors.Errorf("GET %s%s: status %d", host, route, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	filePath := filepath.Join(dir, filepath.FromSlash(route), "index.html")
	if route == notFoundProbe {
		filePath = filepath.Join(dir, "404.html")
	}
	if err := writeFile(filePath, body); err != nil {
		return err
	}

	logger.Debug("generated", zap.String("file", filePath))
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(atomic.WriteFile(path, bytes.NewReader(data)), "write %s", path)
}

// copyTree copies every regular file under src into dst. A missing src is
// not an error.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		input, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dst, rel), input)
	})
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "dist", "Output directory")
}
