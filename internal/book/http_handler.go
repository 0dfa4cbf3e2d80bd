package book

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/logging"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	msgListFailed   = "Unable to fetch books at the moment. Please try again later."
	msgCreateFailed = "Unable to add the book. Please try again."
	msgUpdateFailed = "Unable to update the book. Please try again."
	msgDeleteFailed = "Unable to delete the book. Please try again."
	msgNotFound     = "Book not found."
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logging.NewComponentLogger(logger, "books")}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("POST /books/{id}", h.Update)
	mux.HandleFunc("POST /books/delete/{id}", h.Delete)
}

// Index handles GET /
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	httpx.SeeOther(w, r, "/books")
}

type listPage struct {
	Sort  SortKey
	Books []Book
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := ParseSortKey(r.URL.Query().Get("sort_by"))

	books, err := h.service.List(r.Context(), sort)
	if err != nil {
		h.fail(w, r, "list books", err, msgListFailed)
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, listPage{Sort: sort, Books: books}); err != nil {
		h.fail(w, r, "render books", err, msgListFailed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(r)
	if err != nil {
		httpx.TextError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if _, err := h.service.Create(r.Context(), sub); err != nil {
		h.fail(w, r, "add book", err, msgCreateFailed)
		return
	}
	httpx.SeeOther(w, r, "/books")
}

// Update handles POST /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.TextError(w, http.StatusNotFound, msgNotFound)
		return
	}

	sub, err := parseSubmission(r)
	if err != nil {
		httpx.TextError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if _, err := h.service.Update(r.Context(), id, sub); err != nil {
		h.fail(w, r, "update book", err, msgUpdateFailed)
		return
	}
	httpx.SeeOther(w, r, "/books")
}

// Delete handles POST /books/delete/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.TextError(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete book", err, msgDeleteFailed)
		return
	}
	httpx.SeeOther(w, r, "/books")
}

// fail maps service errors to responses. Only validation messages reach the
// client; everything else is logged and answered with the fixed message.
func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error, message string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		msgs := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			msgs[i] = f.Message
		}
		httpx.TextError(w, http.StatusBadRequest, strings.Join(msgs, "\n"))
	case errors.Is(err, ErrNotFound):
		httpx.TextError(w, http.StatusNotFound, msgNotFound)
	default:
		h.logger.Error("failed to "+action,
			slog.String("request_id", httpx.RequestIDFrom(r)),
			logging.Error(err),
		)
		httpx.TextError(w, http.StatusInternalServerError, message)
	}
}

func parseSubmission(r *http.Request) (Submission, error) {
	if err := r.ParseForm(); err != nil {
		return Submission{}, err
	}
	return Submission{
		Title:    r.PostForm.Get("title"),
		Author:   r.PostForm.Get("author"),
		Rating:   r.PostForm.Get("rating"),
		ReadDate: r.PostForm.Get("read_date"),
	}, nil
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
