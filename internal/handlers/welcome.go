package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/welcome.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

type endpoint struct {
	Method      string
	Path        string
	Description string
}

type welcomePage struct {
	Title       string
	AuthEnabled bool
	Endpoints   []endpoint
}

// WelcomeHandler serves the static landing page at /
type WelcomeHandler struct {
	page   []byte
	logger *slog.Logger
}

// NewWelcomeHandler renders the landing page once up front
func NewWelcomeHandler(authEnabled bool, logger *slog.Logger) (*WelcomeHandler, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, welcomePage{
		Title:       "Product Catalog API",
		AuthEnabled: authEnabled,
		Endpoints: []endpoint{
			{http.MethodGet, "/api/products", "List products"},
			{http.MethodGet, "/api/products/{id}", "Get a product"},
			{http.MethodPost, "/api/products", "Create a product"},
			{http.MethodPut, "/api/products/{id}", "Replace a product"},
			{http.MethodPatch, "/api/products/{id}", "Update some fields of a product"},
			{http.MethodDelete, "/api/products/{id}", "Delete a product"},
			{http.MethodGet, "/health", "Health check"},
		},
	})
	if err != nil {
		return nil, err
	}
	return &WelcomeHandler{page: buf.Bytes(), logger: logger}, nil
}

func (h *WelcomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.page); err != nil {
		h.logger.Error("failed to write welcome page", "error", err)
	}
}
