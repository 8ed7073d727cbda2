// Package handler exposes record upload and search over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffdir/internal/record/ingest"
	"staffdir/internal/record/models"
	dErrors "staffdir/pkg/domain-errors"
	"staffdir/pkg/platform/httputil"
	request "staffdir/pkg/platform/middleware/request"
	"staffdir/pkg/platform/validation"
)

// UploadSuccessMessage is the plain-text body of a successful upload.
const UploadSuccessMessage = "File uploaded and data saved successfully"

// Service defines the record operations used by the handler.
type Service interface {
	Upload(ctx context.Context, file []byte, delimiter rune) (int, error)
	SearchByCriteria(ctx context.Context, criteria models.Criteria, page models.PageRequest) (*models.Page[*models.Record], error)
	SearchByText(ctx context.Context, text string, page models.PageRequest) (*models.Page[*models.Record], error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/records/upload", h.HandleUpload)
	r.Get("/records/search", h.HandleSearch)
	r.Get("/records/text", h.HandleTextSearch)
}

// HandleUpload ingests the multipart "file" part using the "delimiter"
// parameter. A missing or unreadable file part is reported like an empty file.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	file, err := readFilePart(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read upload", "error", err, "request_id", requestID)
		httputil.WriteError(w, r, dErrors.Wrap(err, dErrors.CodeFileUpload, ingest.MsgFileUpload))
		return
	}

	n, err := h.service.Upload(ctx, file, parseDelimiter(delimiterParam(r)))
	if err != nil {
		h.logger.ErrorContext(ctx, "upload failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "upload stored", "records", n, "request_id", requestID)
	httputil.WriteText(w, http.StatusCreated, UploadSuccessMessage)
}

// HandleSearch returns a page of records matching every supplied criterion.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, err := bindSearchRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	page, err := req.PageRequest()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	res, err := h.service.SearchByCriteria(ctx, req.Criteria(), page)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPageResponse(res))
}

// HandleTextSearch returns a page of records containing the text in any
// text field.
func (h *Handler) HandleTextSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, err := bindTextSearchRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	page, err := req.PageRequest()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	res, err := h.service.SearchByText(ctx, req.Text, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "text search failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPageResponse(res))
}

// readFilePart returns the "file" part's bytes, or nil when the part is absent.
func readFilePart(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(validation.MultipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	part, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer part.Close()

	return io.ReadAll(part)
}
