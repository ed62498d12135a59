package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/api/shared"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/query"
	"github.com/phrazzld/taskmate-api/internal/service"
)

// getUserIDFromContext returns the owner placed in the context by the auth middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID parses the chi URL parameter paramName as a UUID.
// Missing or malformed values are validation errors.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format")
	}

	return id, nil
}

// requireUserID extracts the authenticated owner, writing a 401 when there is none.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, service.ErrUnauthenticated, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts the authenticated owner and the path UUID
// named paramName. It writes the error response and reports false when
// either is missing.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// decodeAndValidate decodes the body into req and validates it, writing a
// 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}

	return true
}

// listParams are the parsed query parameters of GET /api/tasks.
type listParams struct {
	request service.ListTasksRequest
	limit   int
	offset  int
}

// parseListParams reads status, priority, sort, q, limit and offset.
// The sort key defaults to newest first when absent.
func parseListParams(r *http.Request, ownerID uuid.UUID) (listParams, error) {
	values := r.URL.Query()
	params := listParams{
		request: service.ListTasksRequest{
			OwnerID: ownerID,
			SortKey: query.SortCreatedAt,
			Keyword: strings.TrimSpace(values.Get("q")),
		},
		limit: DefaultPageLimit,
	}

	if raw := values.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return listParams{}, err
		}
		params.request.Status = &status
	}

	if raw := values.Get("priority"); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return listParams{}, err
		}
		params.request.Priority = &priority
	}

	// Unknown sort keys pass through; query.Sort leaves the order untouched.
	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		params.request.SortKey = strings.ToLower(raw)
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageLimit {
			return listParams{}, domain.NewValidationError("limit", "must be an integer between 1 and 50")
		}
		params.limit = limit
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return listParams{}, domain.NewValidationError("offset", "must be a non-negative integer")
		}
		params.offset = offset
	}

	return params, nil
}
