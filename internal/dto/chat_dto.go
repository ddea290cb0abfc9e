package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Role       string `json:"role" validate:"required,oneof=client manager"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	MiddleName string `json:"middle_name" validate:"required,max=100"`
}

type RegisterResponse struct {
	Token string                `json:"token"`
	State *SessionStateResponse `json:"state"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type SendMessageResponse struct {
	Sent         bool                  `json:"sent"`
	Message      *MessageResponse      `json:"message,omitempty"`
	Thread       *ThreadResponse       `json:"thread,omitempty"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

// UploadFileRequest is filled by the controller from the multipart form.
type UploadFileRequest struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadFileResponse struct {
	Uploaded     bool                  `json:"uploaded"`
	File         *FileResponse         `json:"file,omitempty"`
	Message      *MessageResponse      `json:"message,omitempty"`
	Thread       *ThreadResponse       `json:"thread,omitempty"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

type DownloadFileResponse struct {
	Name        string
	ContentType string
	Data        []byte
}

type SetSectionRequest struct {
	Section string `json:"section" validate:"required,oneof=chat files profile settings"`
}

type SetCaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress waiting_docs completed"`
}

type UserResponse struct {
	Id          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	MiddleName  string    `json:"middle_name"`
	DisplayName string    `json:"display_name"`
	Initials    string    `json:"initials"`
	Role        string    `json:"role"`
}

type ThreadResponse struct {
	Id          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	ManagerName string    `json:"manager_name"`
	Online      bool      `json:"online"`
	Unread      int       `json:"unread"`
	LastMessage string    `json:"last_message"`
	CaseStatus  string    `json:"case_status,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Id        uuid.UUID  `json:"id"`
	ThreadId  uuid.UUID  `json:"thread_id"`
	Author    string     `json:"author"`
	Text      string     `json:"text"`
	Kind      string     `json:"kind"`
	FileId    *uuid.UUID `json:"file_id,omitempty"`
	FileName  string     `json:"file_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type FileResponse struct {
	Id          uuid.UUID `json:"id"`
	ThreadId    uuid.UUID `json:"thread_id"`
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	Size        string    `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
	BlobRef     string    `json:"blob_ref"`
}

type NotificationResponse struct {
	ThreadId  uuid.UUID `json:"thread_id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type PresenceResponse struct {
	ThreadId uuid.UUID `json:"thread_id"`
	Online   bool      `json:"online"`
}

type SessionStateResponse struct {
	SessionId       uuid.UUID         `json:"session_id"`
	Variant         string            `json:"variant"`
	Authenticated   bool              `json:"authenticated"`
	User            *UserResponse     `json:"user,omitempty"`
	Threads         []ThreadResponse  `json:"threads"`
	CurrentThreadId *uuid.UUID        `json:"current_thread_id"`
	Section         string            `json:"section"`
	Messages        []MessageResponse `json:"messages"`
	Files           []FileResponse    `json:"files"`
}

type VariantResponse struct {
	Code              string   `json:"code"`
	Title             string   `json:"title"`
	Tagline           string   `json:"tagline"`
	CaseStatusEnabled bool     `json:"case_status_enabled"`
	CaseStatuses      []string `json:"case_statuses,omitempty"`
}
