package mapper

import (
	"bizchat-be/internal/constant"
	"bizchat-be/internal/dto"
	"bizchat-be/internal/entity"
	"bizchat-be/pkg/store"

	"github.com/google/uuid"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) StateToResponse(s store.State) *dto.SessionStateResponse {
	res := &dto.SessionStateResponse{
		SessionId:     s.SessionId,
		Variant:       s.Variant,
		Authenticated: s.Authenticated,
		User:          m.UserToResponse(s.User),
		Threads:       make([]dto.ThreadResponse, 0, len(s.Threads)),
		Section:       s.Section,
		Messages:      make([]dto.MessageResponse, 0, len(s.Messages)),
		Files:         make([]dto.FileResponse, 0, len(s.Files)),
	}
	if s.CurrentThreadId != uuid.Nil {
		id := s.CurrentThreadId
		res.CurrentThreadId = &id
	}
	for i := range s.Threads {
		res.Threads = append(res.Threads, *m.ThreadToResponse(&s.Threads[i]))
	}
	for i := range s.Messages {
		res.Messages = append(res.Messages, *m.MessageToResponse(&s.Messages[i]))
	}
	for i := range s.Files {
		res.Files = append(res.Files, *m.FileToResponse(&s.Files[i]))
	}
	return res
}

func (m *SessionMapper) UserToResponse(u *entity.ChatUser) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		Id:          u.Id,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		MiddleName:  u.MiddleName,
		DisplayName: u.DisplayName(),
		Initials:    u.Initials(),
		Role:        u.Role,
	}
}

func (m *SessionMapper) ThreadToResponse(t *entity.ChatThread) *dto.ThreadResponse {
	if t == nil {
		return nil
	}
	return &dto.ThreadResponse{
		Id:          t.Id,
		ClientName:  t.ClientName,
		ManagerName: t.ManagerName,
		Online:      t.Online,
		Unread:      t.Unread,
		LastMessage: t.LastMessage,
		CaseStatus:  t.CaseStatus,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *SessionMapper) MessageToResponse(msg *entity.ChatMessage) *dto.MessageResponse {
	if msg == nil {
		return nil
	}
	return &dto.MessageResponse{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Author:    msg.Author,
		Text:      msg.Text,
		Kind:      msg.Kind,
		FileId:    msg.FileId,
		FileName:  msg.FileName,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *SessionMapper) FileToResponse(f *entity.UploadedFile) *dto.FileResponse {
	if f == nil {
		return nil
	}
	return &dto.FileResponse{
		Id:          f.Id,
		ThreadId:    f.ThreadId,
		Name:        f.Name,
		SizeBytes:   f.SizeBytes,
		Size:        f.HumanSize(),
		ContentType: f.ContentType,
		UploadedBy:  f.UploadedBy,
		UploadedAt:  f.UploadedAt,
		BlobRef:     f.BlobRef,
	}
}

func (m *SessionMapper) NotificationToResponse(n *entity.ChatNotification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}
	return &dto.NotificationResponse{
		ThreadId:  n.ThreadId,
		Title:     n.Title,
		Preview:   n.Preview,
		CreatedAt: n.CreatedAt,
	}
}

func (m *SessionMapper) PresenceToResponse(flags map[uuid.UUID]bool) []dto.PresenceResponse {
	res := make([]dto.PresenceResponse, 0, len(flags))
	for id, online := range flags {
		res = append(res, dto.PresenceResponse{ThreadId: id, Online: online})
	}
	return res
}

func (m *SessionMapper) VariantToResponse(v constant.Variant) *dto.VariantResponse {
	res := &dto.VariantResponse{
		Code:              v.Code,
		Title:             v.Title,
		Tagline:           v.Tagline,
		CaseStatusEnabled: v.CaseStatusEnabled,
	}
	if v.CaseStatusEnabled {
		res.CaseStatuses = []string{
			constant.CaseStatusNew,
			constant.CaseStatusInProgress,
			constant.CaseStatusWaitingDocs,
			constant.CaseStatusCompleted,
		}
	}
	return res
}
