package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/cms"
	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
)

// RequestInfo is what host routing decided for a request.
type RequestInfo struct {
	Site         hosts.Site
	Locale       i18n.Locale
	Kind         hosts.Kind
	ExternalPath string
	InternalPath string
}

type requestInfoKey struct{}

// RequestInfoFrom returns the routing decision stored on ctx, if any.
func RequestInfoFrom(ctx context.Context) (*RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(*RequestInfo)
	return info, ok
}

func requestInfoFrom(ctx context.Context, locales i18n.Set) *RequestInfo {
	if info, ok := RequestInfoFrom(ctx); ok && info.Site != "" {
		return info
	}
	return &RequestInfo{Site: hosts.Main, Locale: locales.Default(), ExternalPath: "/"}
}

// hostRouting maps the browser-visible path onto the internal route for
// the request's site and locale, answers locale redirects, and gives
// every request its own content memo.
func (a *App) hostRouting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := RequestInfoFrom(r.Context())
		if !ok {
			info = &RequestInfo{}
		}

		external := r.URL.Path
		d := a.hosts.Route(r.Host, external)

		info.Site = d.Site
		info.Locale = d.Locale
		if info.Locale == "" {
			// Pass-through paths carry no locale; a 404 there follows the browser.
			info.Locale = a.locales.Match(r.Header.Get("Accept-Language"))
		}
		info.Kind = d.Kind
		info.ExternalPath = external

		if d.Kind == hosts.Redirect {
			location := d.Location
			if r.URL.RawQuery != "" {
				location += "?" + r.URL.RawQuery
			}
			info.InternalPath = location
			http.Redirect(w, r, location, http.StatusMovedPermanently)
			return
		}

		ctx := cms.WithMemo(r.Context())
		ctx = context.WithValue(ctx, requestInfoKey{}, info)
		r = r.Clone(ctx)
		if d.Kind == hosts.Rewrite {
			r.URL.Path = d.Path
			r.URL.RawPath = ""
		}
		info.InternalPath = r.URL.Path

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// requestLogging logs one line per request. known_host is false for hosts
// that fell through to the main site without being configured for it.
func requestLogging(logger *zap.Logger, classifier hosts.Classifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &RequestInfo{}
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("host", r.Host),
				zap.Bool("known_host", classifier.IsMain(r.Host) || classifier.IsTaxes(r.Host)),
				zap.String("path", r.URL.Path),
				zap.String("internal_path", info.InternalPath),
				zap.String("route", info.Kind.String()),
				zap.String("site", string(info.Site)),
				zap.String("locale", string(info.Locale)),
				zap.Int("status", status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
