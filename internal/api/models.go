package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/query"
)

// Pagination bounds for GET /api/tasks
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// ChatHistoryLimit bounds GET /api/chat/history.
const ChatHistoryLimit = 50

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"              validate:"required,email"`
	Username string `json:"username,omitempty" validate:"omitempty,max=50"`
	Password string `json:"password"           validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is sent as "token" for clients of the register/login endpoints
	AccessToken string `json:"token"`

	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the RFC 3339 time the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for POST /api/tasks.
// Priority and recurrence_interval are matched case-insensitively.
type CreateTaskRequest struct {
	Title              string       `json:"title"                 validate:"required,max=200"`
	Description        *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Priority           string       `json:"priority,omitempty"`
	Category           string       `json:"category,omitempty"    validate:"omitempty,max=50"`
	Tags               []string     `json:"tags,omitempty"        validate:"omitempty,max=20,dive,max=50"`
	DueDate            OptionalTime `json:"due_date"`
	IsRecurring        bool         `json:"is_recurring"`
	RecurrenceInterval string       `json:"recurrence_interval,omitempty"`
}

// UpdateTaskRequest defines the payload for PATCH /api/tasks/{id}.
// Absent fields are left untouched; a null or empty due_date clears it.
type UpdateTaskRequest struct {
	Title              *string      `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description        *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status             *string      `json:"status,omitempty"`
	Priority           *string      `json:"priority,omitempty"`
	Category           *string      `json:"category,omitempty"    validate:"omitempty,max=50"`
	Tags               *[]string    `json:"tags,omitempty"        validate:"omitempty,max=20,dive,max=50"`
	DueDate            OptionalTime `json:"due_date"`
	IsRecurring        *bool        `json:"is_recurring,omitempty"`
	RecurrenceInterval *string      `json:"recurrence_interval,omitempty"`
}

// ChatRequest defines the payload for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Status             string     `json:"status"`
	Completed          bool       `json:"completed"`
	Priority           string     `json:"priority"`
	Category           string     `json:"category"`
	Tags               []string   `json:"tags"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceInterval *string    `json:"recurrence_interval,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// PaginationResponse describes the window returned by GET /api/tasks.
type PaginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// TaskListResponse is the response of GET /api/tasks.
type TaskListResponse struct {
	Tasks      []TaskResponse     `json:"tasks"`
	Pagination PaginationResponse `json:"pagination"`
}

// CompleteTaskResponse is the response of PATCH /api/tasks/{id}/complete.
type CompleteTaskResponse struct {
	Task           TaskResponse  `json:"task"`
	NextOccurrence *TaskResponse `json:"next_occurrence,omitempty"`
}

// DeleteTaskResponse is the response of DELETE /api/tasks/{id}.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ChatResponse is the response of POST /api/chat.
type ChatResponse struct {
	Reply  string         `json:"reply"`
	Tasks  []TaskResponse `json:"tasks"`
	Source string         `json:"source"`
}

// ChatMessageResponse is one entry of the chat history.
type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	TaskCount int       `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistoryResponse is the response of GET /api/chat/history.
type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

// OptionalTime is a JSON due date that remembers whether the field was sent.
// null and "" decode to Set with a nil Value.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.NewValidationError("due_date", "must be a string")
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	t, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// dueDateLayouts are tried in order; layouts without a zone are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDueDate accepts RFC 3339 timestamps, zone-less ISO 8601 date-times
// and plain dates.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("due_date",
		fmt.Sprintf("%q is not an RFC 3339 timestamp or YYYY-MM-DD date", s))
}

func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		OwnerID:     task.OwnerID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Completed:   task.Status == domain.StatusCompleted,
		Priority:    string(task.Priority),
		Category:    task.Category,
		Tags:        task.Tags,
		DueDate:     task.DueDate,
		IsRecurring: task.IsRecurring,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if task.RecurrenceInterval != nil {
		interval := string(*task.RecurrenceInterval)
		resp.RecurrenceInterval = &interval
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

func pageToResponse(page query.Page) TaskListResponse {
	return TaskListResponse{
		Tasks: tasksToResponse(page.Tasks),
		Pagination: PaginationResponse{
			Total:   page.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
			HasMore: page.HasMore,
		},
	}
}

func chatMessageToResponse(msg *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID.String(),
		Prompt:    msg.Prompt,
		Response:  msg.Response,
		TaskCount: msg.TaskCount,
		CreatedAt: msg.CreatedAt,
	}
}
