package handlers

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/julienschmidt/httprouter"
)

// Page renders the body of one route. A nil View with a nil error is a 404.
type Page interface {
	Render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error)
}

type PageFunc func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error)

func (f PageFunc) Render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*View, error) {
	return f(w, r, ps)
}

// View is what a Page hands to the layout.
type View struct {
	Template    string
	Title       string
	Description string
	// Bare pages skip the header and footer.
	Bare bool
	// Form, when set, is rendered into the "contactForm" variable.
	Form *ContactForm
	Data map[string]interface{}
}

type ContactForm struct {
	Variant    string
	SubmitText string
}

// muxParams exposes the mux route variables as httprouter params, sorted
// by key.
func muxParams(r *http.Request) httprouter.Params {
	vars := mux.Vars(r)
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ps := make(httprouter.Params, 0, len(keys))
	for _, k := range keys {
		ps = append(ps, httprouter.Param{Key: k, Value: vars[k]})
	}
	return ps
}
