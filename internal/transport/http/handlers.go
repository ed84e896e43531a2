// Package httptransport is the thin HTTP layer over the directory service.
// It translates form and query input into service calls and service errors
// into JSON responses; templating is a client concern.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"tipjar/internal/directory"
	"tipjar/internal/platform/middleware"
)

// maxSubmissionBytes bounds multipart form parsing for submissions.
const maxSubmissionBytes = 10 << 20

// DirectoryService is the surface the handlers need from the directory
// service, kept as an interface so tests can fake it.
type DirectoryService interface {
	LoadByID(ctx context.Context, id string) (directory.Record, error)
	Search(ctx context.Context, query string) (results, spotlight []directory.Record, err error)
	Submit(ctx context.Context, sub directory.Submission, photo io.Reader) (directory.Record, error)
	Moderate(ctx context.Context, action directory.ModerationAction, id, token string) error
	ModerationQueue(ctx context.Context, token string) (pending []directory.Record, totalActive int, err error)
	ImportFromSpreadsheet(ctx context.Context, token string) (int, error)
	AuthorizeAdmin(token string) error
}

// Handler handles directory endpoints.
type Handler struct {
	service DirectoryService
	logger  *slog.Logger
}

func NewHandler(service DirectoryService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type listResponse struct {
	Search        string             `json:"search"`
	IsAdded       bool               `json:"is_added"`
	SearchResults []directory.Record `json:"search_results"`
	RandomResults []directory.Record `json:"random_results"`
}

// handleList serves the browse/search view. With ?added=<id> it instead
// confirms a fresh submission by returning just that record, cache-busting
// its thumbnail so the browser shows the newly uploaded image.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if addedID := r.URL.Query().Get("added"); addedID != "" {
		record, err := h.service.LoadByID(ctx, addedID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if record.Thumbnail != "" {
			record.Thumbnail += fmt.Sprintf("?force-refresh=%d", time.Now().Unix())
		}
		writeJSON(w, http.StatusOK, listResponse{
			IsAdded:       true,
			SearchResults: []directory.Record{record},
			RandomResults: []directory.Record{},
		})
		return
	}

	query := r.URL.Query().Get("search")
	results, spotlight, err := h.service.Search(ctx, query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Search:        query,
		SearchResults: emptyIfNil(results),
		RandomResults: emptyIfNil(spotlight),
	})
}

// handleSubmit accepts the public submission form (multipart, optional photo
// part) and the administrator edit form (same shape plus record_id and
// token).
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		h.writeError(w, r, directory.NewFormError("Unable to read submission"))
		return
	}
	sub := directory.Submission{
		RecordID: r.FormValue("record_id"),
		Token:    adminToken(r),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Venue:    r.FormValue("venue"),
		Position: r.FormValue("position"),
		CashApp:  r.FormValue("cash_app"),
		Venmo:    r.FormValue("venmo"),
		PayPal:   r.FormValue("paypal"),
	}

	var photo io.Reader
	if file, header, err := r.FormFile("photo"); err == nil && header.Filename != "" {
		defer file.Close()
		sub.PhotoFilename = header.Filename
		photo = file
	}

	record, err := h.service.Submit(ctx, sub, photo)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type moderationQueueResponse struct {
	Pending     []directory.Record `json:"moderation_results"`
	TotalActive int                `json:"total_active"`
}

func (h *Handler) handleModerationQueue(w http.ResponseWriter, r *http.Request) {
	pending, totalActive, err := h.service.ModerationQueue(r.Context(), adminToken(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moderationQueueResponse{
		Pending:     emptyIfNil(pending),
		TotalActive: totalActive,
	})
}

// handleModerate applies accept/delete, or returns the record for editing.
func (h *Handler) handleModerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	// FormValue parses both urlencoded and multipart bodies.
	id := r.FormValue("id")
	token := adminToken(r)

	switch {
	case r.FormValue("accept") != "" && id != "":
		if err := h.service.Moderate(ctx, directory.ActionAccept, id, token); err != nil {
			h.writeError(w, r, err)
			return
		}
	case r.FormValue("delete") != "" && id != "":
		if err := h.service.Moderate(ctx, directory.ActionDelete, id, token); err != nil {
			h.writeError(w, r, err)
			return
		}
	case r.FormValue("edit") != "" && id != "":
		// Edits only load here; the mutation arrives through handleSubmit
		// with record_id set.
		if err := h.service.AuthorizeAdmin(token); err != nil {
			h.writeError(w, r, err)
			return
		}
		record, err := h.service.LoadByID(ctx, id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	default:
		h.writeError(w, r, directory.NewFormError("Unknown moderation action"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	imported, err := h.service.ImportFromSpreadsheet(r.Context(), adminToken(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

// adminToken reads the administrator token from the query string or the form
// body.
func adminToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return r.FormValue("token")
}

type errorResponse struct {
	Errors []string `json:"errors"`
}

// writeError maps service errors onto HTTP statuses. Form errors come back
// as data with the messages intact so the client can re-render the form.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if formErr, ok := directory.AsFormError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: formErr.Messages})
		return
	}
	switch {
	case errors.Is(err, directory.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Errors: []string{"not found"}})
	case errors.Is(err, directory.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Errors: []string{"unauthorized"}})
	case errors.Is(err, directory.ErrReadOnlySource):
		writeJSON(w, http.StatusNotFound, errorResponse{Errors: []string{"not found"}})
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Errors: []string{"internal error"}})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func emptyIfNil(records []directory.Record) []directory.Record {
	if records == nil {
		return []directory.Record{}
	}
	return records
}
