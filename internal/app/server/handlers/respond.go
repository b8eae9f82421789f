package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mingle/internal/core/domain"
	"mingle/internal/platform/logger"
	"mingle/pkg/apperr"
)

type apiResponse struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Data:    data,
		Status:  status,
		Message: "Success!",
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Err(err))
	} else {
		log.Debug("request rejected", logger.Err(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Status:  status,
		Message: apperr.MessageOf(err),
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.CodeBadRequest, "Malformed request body", err)
	}
	return nil
}

// parsePage reads cursor/size query parameters; both are optional.
func parsePage(r *http.Request) (domain.PageRequest, error) {
	var page domain.PageRequest
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return page, apperr.BadRequest("Invalid cursor")
		}
		page.Cursor = &cursor
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || size < 1 {
			return page, apperr.BadRequest("Invalid page size")
		}
		s := int32(size)
		page.Size = &s
	}
	return page, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return id, nil
}
