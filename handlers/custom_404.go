package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/hosts"
)

// Custom404Handler serves a file from the public dir when one exists at the
// request path, and the localized not-found page otherwise.
func (a *App) Custom404Handler(w http.ResponseWriter, r *http.Request) {
	if a.servePublicFile(w, r) {
		return
	}

	info := requestInfoFrom(r.Context(), a.locales)
	view := &View{
		Template: "pages/not_found",
		Title:    a.messages.Message(info.Locale, "notFound.title"),
		Data: map[string]interface{}{
			"homeHref": a.hosts.ExternalPath(info.Locale, "/"),
		},
	}

	body, err := a.render(r, view)
	if err != nil {
		a.logger.Error("render 404", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (a *App) servePublicFile(w http.ResponseWriter, r *http.Request) bool {
	if a.cfg.PublicDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		return false
	}
	clean := path.Clean("/" + r.URL.Path)
	if clean == "/" {
		return false
	}
	file := filepath.Join(a.cfg.PublicDir, filepath.FromSlash(clean))
	st, err := os.Stat(file)
	if err != nil || st.IsDir() {
		return false
	}
	http.ServeFile(w, r, file)
	return true
}

// adminIndex serves the CMS admin entry page. http.FileServer would
// redirect /admin/index.html back to /admin/, which routes here again.
func (a *App) adminIndex(w http.ResponseWriter, r *http.Request) {
	file := filepath.Join(a.cfg.PublicDir, filepath.FromSlash(hosts.AdminIndexPath))
	f, err := os.Open(file)
	if err != nil {
		a.Custom404Handler(w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		a.Custom404Handler(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
