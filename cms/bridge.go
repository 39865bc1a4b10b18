package cms

import (
	"net/http"
	"os"

	"go.uber.org/zap"
)

// ConfigBridge serves the CMS admin YAML file, revalidated on every load.
func ConfigBridge(file string, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, err := os.ReadFile(file)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("read cms config", zap.String("file", file), zap.Error(err))
			}
			http.Error(w, "Config not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/yaml")
		w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		_, _ = w.Write(content)
	})
}
