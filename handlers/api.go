package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/hosts"
)

// apiRouter serves /api/*: the CMS config bridge and a health check.
func (a *App) apiRouter() http.Handler {
	r := httprouter.New()
	r.RedirectTrailingSlash = false

	bridge := cms.ConfigBridge(a.cfg.AdminConfig, a.logger)
	r.Handler(http.MethodGet, hosts.CMSConfigPath, bridge)
	r.Handler(http.MethodHead, hosts.CMSConfigPath, bridge)
	r.GET("/api/health", a.health)

	r.NotFound = http.HandlerFunc(a.Custom404Handler)
	return r
}

func (a *App) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
