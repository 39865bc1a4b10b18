package forms

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// FormNameField carries which form was posted.
	FormNameField = "form-name"
	// HoneypotField is hidden from people; bots fill it in.
	HoneypotField = "bot-field"

	ContactForm = "contact"

	maxBodyBytes = 64 << 10
)

// Saver persists accepted submissions.
type Saver interface {
	Save(ctx context.Context, sub Submission) error
}

// DefaultForms maps each accepted form name to its required fields.
var DefaultForms = map[string][]string{
	ContactForm: {"name", "email", "message"},
}

// Capture is the static-form backend: it accepts URL-encoded posts for
// known forms and stores them.
type Capture struct {
	store  Saver
	forms  map[string][]string
	logger *zap.Logger

	// SiteOf labels a submission with the site it came from.
	SiteOf func(*http.Request) string

	now   func() time.Time
	newID func() string
}

func NewCapture(store Saver, forms map[string][]string, logger *zap.Logger) *Capture {
	if forms == nil {
		forms = DefaultForms
	}
	return &Capture{
		store:  store,
		forms:  forms,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

func (c *Capture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	formName := r.PostForm.Get(FormNameField)
	required, ok := c.forms[formName]
	if !ok {
		http.Error(w, "Form not found", http.StatusNotFound)
		return
	}

	if strings.TrimSpace(r.PostForm.Get(HoneypotField)) != "" {
		c.logger.Info("form submission dropped by honeypot", zap.String("form", formName))
		w.WriteHeader(http.StatusOK)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if key == FormNameField || key == HoneypotField || len(values) == 0 {
			continue
		}
		fields[key] = strings.TrimSpace(values[0])
	}

	for _, name := range required {
		if fields[name] == "" {
			http.Error(w, "Missing field: "+name, http.StatusBadRequest)
			return
		}
	}
	if email, ok := fields["email"]; ok && !strings.Contains(email, "@") {
		http.Error(w, "Invalid email", http.StatusBadRequest)
		return
	}

	sub := Submission{
		ID:         c.newID(),
		FormName:   formName,
		Name:       fields["name"],
		Email:      fields["email"],
		Message:    fields["message"],
		Fields:     fields,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		CreatedAt:  c.now(),
	}
	if c.SiteOf != nil {
		sub.Site = c.SiteOf(r)
	}

	if err := c.store.Save(r.Context(), sub); err != nil {
		c.logger.Error("save form submission", zap.String("form", formName), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	c.logger.Info("form submission stored",
		zap.String("form", formName),
		zap.String("id", sub.ID),
		zap.String("site", sub.Site),
	)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
