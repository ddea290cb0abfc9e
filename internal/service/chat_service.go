package service

import (
	"context"
	"errors"
	"time"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/dto"
	"bizchat-be/internal/mapper"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/repository/memory"
	"bizchat-be/pkg/events"
	"bizchat-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound      = errors.New("chat session not found")
	ErrRegistrationRejected = errors.New("first, last and middle name are required")
	ErrFileNotFound         = errors.New("file not found")
)

// TokenIssuer hands out the token a tab uses to address its session.
type TokenIssuer interface {
	Issue(sessionID uuid.UUID) (string, error)
}

type IChatService interface {
	Variant() *dto.VariantResponse
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	GetState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error)
	SelectThread(ctx context.Context, sessionId uuid.UUID, threadId uuid.UUID) (*dto.SessionStateResponse, error)
	SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	UploadFile(ctx context.Context, sessionId uuid.UUID, req *dto.UploadFileRequest) (*dto.UploadFileResponse, error)
	DownloadFile(ctx context.Context, sessionId uuid.UUID, fileId uuid.UUID) (*dto.DownloadFileResponse, error)
	SetSection(ctx context.Context, sessionId uuid.UUID, req *dto.SetSectionRequest) (*dto.SessionStateResponse, error)
	SetCaseStatus(ctx context.Context, sessionId uuid.UUID, threadId uuid.UUID, req *dto.SetCaseStatusRequest) (*dto.ThreadResponse, error)
	Close(ctx context.Context, sessionId uuid.UUID) error
}

type chatService struct {
	variant     constant.Variant
	sessionRepo *memory.SessionRepository
	blobRepo    *memory.BlobRepository
	tokens      TokenIssuer
	publisher   IPublisherService
	mapper      *mapper.SessionMapper
	logger      logger.ILogger
	now         func() time.Time
}

func NewChatService(
	variant constant.Variant,
	sessionRepo *memory.SessionRepository,
	blobRepo *memory.BlobRepository,
	tokens TokenIssuer,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	s := &chatService{
		variant:     variant,
		sessionRepo: sessionRepo,
		blobRepo:    blobRepo,
		tokens:      tokens,
		publisher:   publisher,
		mapper:      mapper.NewSessionMapper(),
		logger:      log,
		now:         time.Now,
	}
	// Expired and closed sessions release their blobs the same way.
	sessionRepo.OnEvicted(s.teardown)
	return s
}

func (s *chatService) Variant() *dto.VariantResponse {
	return s.mapper.VariantToResponse(s.variant)
}

func (s *chatService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	session := store.NewSession(store.Options{Variant: s.variant, Now: s.now})
	if !session.Register(req.Role, req.FirstName, req.LastName, req.MiddleName) {
		return nil, ErrRegistrationRejected
	}

	token, err := s.tokens.Issue(session.ID())
	if err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)

	state := s.mapper.StateToResponse(session.Snapshot())
	s.logger.Info("ChatService", "Session registered", map[string]interface{}{
		"session_id": session.ID(),
		"role":       req.Role,
		"threads":    len(state.Threads),
	})
	s.emit(ctx, constant.EventSessionRegistered, session.ID(), state)

	return &dto.RegisterResponse{Token: token, State: state}, nil
}

func (s *chatService) GetState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.StateToResponse(session.Snapshot()), nil
}

func (s *chatService) SelectThread(ctx context.Context, sessionId uuid.UUID, threadId uuid.UUID) (*dto.SessionStateResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}

	// An unknown thread simply leaves nothing selected.
	session.SelectThread(threadId)

	state := s.mapper.StateToResponse(session.Snapshot())
	s.emit(ctx, constant.EventThreadSelected, sessionId, map[string]interface{}{
		"current_thread_id": state.CurrentThreadId,
	})
	return state, nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}

	appended := session.SendMessage(req.Text)
	if appended == nil {
		return &dto.SendMessageResponse{Sent: false}, nil
	}

	res := &dto.SendMessageResponse{
		Sent:         true,
		Message:      s.mapper.MessageToResponse(&appended.Message),
		Thread:       s.mapper.ThreadToResponse(&appended.Thread),
		Notification: s.mapper.NotificationToResponse(appended.Notification),
	}
	s.emit(ctx, constant.EventMessageSent, sessionId, map[string]interface{}{
		"message": res.Message,
		"thread":  res.Thread,
	})
	if res.Notification != nil {
		s.emit(ctx, constant.EventNotification, sessionId, res.Notification)
	}
	return res, nil
}

func (s *chatService) UploadFile(ctx context.Context, sessionId uuid.UUID, req *dto.UploadFileRequest) (*dto.UploadFileResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}

	ref := s.blobRepo.Put(&memory.Blob{
		SessionId:   sessionId,
		Name:        req.Name,
		ContentType: req.ContentType,
		Data:        req.Data,
	})

	appended := session.UploadFile(store.FileUpload{
		Name:        req.Name,
		SizeBytes:   int64(len(req.Data)),
		ContentType: req.ContentType,
		BlobRef:     ref,
	})
	if appended == nil {
		s.blobRepo.Release(ref)
		return &dto.UploadFileResponse{Uploaded: false}, nil
	}

	res := &dto.UploadFileResponse{
		Uploaded:     true,
		File:         s.mapper.FileToResponse(appended.File),
		Message:      s.mapper.MessageToResponse(&appended.Message),
		Thread:       s.mapper.ThreadToResponse(&appended.Thread),
		Notification: s.mapper.NotificationToResponse(appended.Notification),
	}
	s.logger.Info("ChatService", "File uploaded", map[string]interface{}{
		"session_id": sessionId,
		"file":       req.Name,
		"size":       res.File.Size,
	})
	s.emit(ctx, constant.EventFileUploaded, sessionId, map[string]interface{}{
		"file":    res.File,
		"message": res.Message,
		"thread":  res.Thread,
	})
	if res.Notification != nil {
		s.emit(ctx, constant.EventNotification, sessionId, res.Notification)
	}
	return res, nil
}

func (s *chatService) DownloadFile(ctx context.Context, sessionId uuid.UUID, fileId uuid.UUID) (*dto.DownloadFileResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}

	file, ok := session.File(fileId)
	if !ok {
		return nil, ErrFileNotFound
	}
	blob, ok := s.blobRepo.Get(file.BlobRef)
	if !ok {
		return nil, ErrFileNotFound
	}

	return &dto.DownloadFileResponse{
		Name:        file.Name,
		ContentType: blob.ContentType,
		Data:        blob.Data,
	}, nil
}

func (s *chatService) SetSection(ctx context.Context, sessionId uuid.UUID, req *dto.SetSectionRequest) (*dto.SessionStateResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}
	session.SetSection(req.Section)
	return s.mapper.StateToResponse(session.Snapshot()), nil
}

func (s *chatService) SetCaseStatus(ctx context.Context, sessionId uuid.UUID, threadId uuid.UUID, req *dto.SetCaseStatusRequest) (*dto.ThreadResponse, error) {
	session, err := s.session(sessionId)
	if err != nil {
		return nil, err
	}

	thread, ok := session.SetCaseStatus(threadId, req.Status)
	if !ok {
		// No-op: report the thread as it stands, or nothing for unknown ids.
		current, found := session.Thread(threadId)
		if !found {
			return nil, nil
		}
		return s.mapper.ThreadToResponse(&current), nil
	}

	res := s.mapper.ThreadToResponse(&thread)
	s.emit(ctx, constant.EventCaseStatusChanged, sessionId, res)
	return res, nil
}

func (s *chatService) Close(ctx context.Context, sessionId uuid.UUID) error {
	if _, found := s.sessionRepo.Get(sessionId); !found {
		return ErrSessionNotFound
	}
	// Eviction hook does the rest.
	s.sessionRepo.Delete(sessionId)
	return nil
}

func (s *chatService) teardown(session *store.Session) {
	refs := session.BlobRefs()
	s.blobRepo.Release(refs...)
	s.logger.Info("ChatService", "Session closed", map[string]interface{}{
		"session_id":     session.ID(),
		"released_blobs": len(refs),
	})
	s.emit(context.Background(), constant.EventSessionClosed, session.ID(), nil)
}

// session loads a live session and slides its expiry.
func (s *chatService) session(sessionId uuid.UUID) (*store.Session, error) {
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, ErrSessionNotFound
	}
	// Lost a race with Close or expiry: the session is already torn down.
	if !s.sessionRepo.Touch(session) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *chatService) emit(ctx context.Context, eventType string, sessionId uuid.UUID, data interface{}) {
	if err := s.publisher.Publish(ctx, events.NewChatEvent(eventType, sessionId, data)); err != nil {
		s.logger.Warn("ChatService", "Failed to publish chat event", map[string]interface{}{
			"error":      err.Error(),
			"event_type": eventType,
		})
	}
}
