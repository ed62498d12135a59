package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/taskmate-api/internal/api/shared"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/service"
)

// ChatHandler turns chat messages into tasks and serves the chat history.
type ChatHandler struct {
	tasks service.TaskService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(tasks service.TaskService) *ChatHandler {
	return &ChatHandler{tasks: tasks}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.tasks.ChatExtract(r.Context(), userID, req.Message)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{
		Reply:  result.Reply,
		Tasks:  tasksToResponse(result.Tasks),
		Source: string(result.Source),
	})
}

// History handles GET /api/chat/history. The optional limit defaults to
// and may not exceed ChatHistoryLimit.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := ChatHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > ChatHistoryLimit {
			HandleAPIError(w, r, domain.NewValidationError("limit", "must be an integer between 1 and 50"), "")
			return
		}
		limit = n
	}

	messages, err := h.tasks.ChatHistory(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ChatHistoryResponse{Messages: make([]ChatMessageResponse, 0, len(messages))}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, chatMessageToResponse(msg))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
