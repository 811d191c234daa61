// Package api holds the timecheck wire contract shared by the server and the
// reference client: message types, the JSON codec they travel in and the
// gRPC service descriptor.
package api

import "time"

// TaskPayload is a task as it crosses the wire. Timestamps are RFC 3339.
type TaskPayload struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
	ClientUpdatedAt time.Time  `json:"client_updated_at"`
}

// TimeEntryPayload is a time entry as it crosses the wire. A null
// stopped_at means the timer is running.
type TimeEntryPayload struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	StartedAt       time.Time  `json:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at"`
	Comment         *string    `json:"comment"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
	ClientUpdatedAt time.Time  `json:"client_updated_at"`
}

type TaskChange struct {
	Op   string      `json:"op"`
	Data TaskPayload `json:"data"`
}

type TimeEntryChange struct {
	Op   string           `json:"op"`
	Data TimeEntryPayload `json:"data"`
}

type Changes struct {
	Tasks       []TaskChange      `json:"tasks"`
	TimeEntries []TimeEntryChange `json:"time_entries"`
}

// SyncRequest carries the client's pending changes and the server_time of
// its previous sync (null on first contact).
type SyncRequest struct {
	LastSyncAt *time.Time `json:"last_sync_at"`
	Changes    Changes    `json:"changes"`
}

// SyncResponse lists every record of the caller changed since LastSyncAt.
// ServerTime is the watermark for the next request.
type SyncResponse struct {
	ServerTime  time.Time          `json:"server_time"`
	Tasks       []TaskPayload      `json:"tasks"`
	TimeEntries []TimeEntryPayload `json:"time_entries"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by Login and RefreshToken.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// ExportRequest asks for a snapshot in "json" or "csv".
type ExportRequest struct {
	Format string `json:"format"`
}

type ExportResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
