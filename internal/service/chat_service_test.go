package service

import (
	"context"
	"testing"
	"time"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/dto"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc       IChatService
	sessions  *memory.SessionRepository
	blobs     *memory.BlobRepository
	publisher *recordingPublisher
}

func newChatFixture(variant string) *chatFixture {
	sessions := memory.NewSessionRepository(time.Hour)
	blobs := memory.NewBlobRepository()
	publisher := &recordingPublisher{}
	svc := NewChatService(constant.LookupVariant(variant), sessions, blobs, staticTokens{}, publisher, logger.NewNop())
	return &chatFixture{svc: svc, sessions: sessions, blobs: blobs, publisher: publisher}
}

func (f *chatFixture) register(t *testing.T, role string) *dto.RegisterResponse {
	t.Helper()
	res, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Role:       role,
		FirstName:  "Иван",
		LastName:   "Петров",
		MiddleName: "Сергеевич",
	})
	require.NoError(t, err)
	return res
}

func TestChatServiceRegister(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)

	client := f.register(t, constant.RoleClient)
	assert.Equal(t, "token-"+client.State.SessionId.String(), client.Token)
	assert.True(t, client.State.Authenticated)
	require.Len(t, client.State.Threads, 1)
	require.NotNil(t, client.State.CurrentThreadId)
	assert.Equal(t, client.State.Threads[0].Id, *client.State.CurrentThreadId)

	manager := f.register(t, constant.RoleManager)
	require.Len(t, manager.State.Threads, 3)
	assert.Equal(t, manager.State.Threads[0].Id, *manager.State.CurrentThreadId)

	assert.Equal(t, 2, f.sessions.Count())
	assert.Equal(t, []string{constant.EventSessionRegistered, constant.EventSessionRegistered}, f.publisher.types())
}

func TestChatServiceRegisterRejectsBlankNames(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)

	_, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Role:       constant.RoleClient,
		FirstName:  "Иван",
		LastName:   " ",
		MiddleName: "Сергеевич",
	})

	assert.ErrorIs(t, err, ErrRegistrationRejected)
	assert.Zero(t, f.sessions.Count())
	assert.Empty(t, f.publisher.types())
}

func TestChatServiceUnknownSession(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()

	_, err := f.svc.GetState(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.SendMessage(ctx, uuid.New(), &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Close(ctx, uuid.New()), ErrSessionNotFound)
}

func TestChatServiceSendMessage(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	reg := f.register(t, constant.RoleClient)
	sid := reg.State.SessionId

	res, err := f.svc.SendMessage(ctx, sid, &dto.SendMessageRequest{Text: "Добрый день"})
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, "Добрый день", res.Thread.LastMessage)
	assert.Nil(t, res.Notification)

	blank, err := f.svc.SendMessage(ctx, sid, &dto.SendMessageRequest{Text: "   "})
	require.NoError(t, err)
	assert.False(t, blank.Sent)

	state, err := f.svc.GetState(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, state.Messages, 1)
	assert.Contains(t, f.publisher.types(), constant.EventMessageSent)
}

func TestChatServiceNotificationOutsideChat(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	sid := f.register(t, constant.RoleClient).State.SessionId

	_, err := f.svc.SetSection(ctx, sid, &dto.SetSectionRequest{Section: constant.SectionProfile})
	require.NoError(t, err)

	res, err := f.svc.SendMessage(ctx, sid, &dto.SendMessageRequest{Text: "ping"})
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.Equal(t, "ping", res.Notification.Preview)
	assert.Equal(t, 1, res.Thread.Unread)
	assert.Contains(t, f.publisher.types(), constant.EventNotification)
}

func TestChatServiceUploadAndDownload(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	reg := f.register(t, constant.RoleClient)
	sid := reg.State.SessionId

	res, err := f.svc.UploadFile(ctx, sid, &dto.UploadFileRequest{
		Name:        "scan.png",
		ContentType: "image/png",
		Data:        make([]byte, 2048),
	})
	require.NoError(t, err)
	require.True(t, res.Uploaded)
	assert.Equal(t, "2.0 KB", res.File.Size)
	assert.Equal(t, *reg.State.CurrentThreadId, res.File.ThreadId)
	assert.Equal(t, *reg.State.CurrentThreadId, res.Message.ThreadId)
	assert.Equal(t, constant.MessageKindFile, res.Message.Kind)
	assert.Equal(t, 1, f.blobs.Count())
	require.NotNil(t, res.Notification)
	assert.Equal(t, "scan.png", res.Notification.Preview)
	assert.Contains(t, f.publisher.types(), constant.EventNotification)

	download, err := f.svc.DownloadFile(ctx, sid, res.File.Id)
	require.NoError(t, err)
	assert.Equal(t, "scan.png", download.Name)
	assert.Equal(t, "image/png", download.ContentType)
	assert.Len(t, download.Data, 2048)

	_, err = f.svc.DownloadFile(ctx, sid, uuid.New())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestChatServiceUploadWithoutThreadReleasesBlob(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	sid := f.register(t, constant.RoleClient).State.SessionId

	_, err := f.svc.SelectThread(ctx, sid, uuid.New())
	require.NoError(t, err)

	res, err := f.svc.UploadFile(ctx, sid, &dto.UploadFileRequest{Name: "a.txt", Data: []byte("a")})
	require.NoError(t, err)
	assert.False(t, res.Uploaded)
	assert.Zero(t, f.blobs.Count())
}

func TestChatServiceSelectThread(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	reg := f.register(t, constant.RoleManager)
	sid := reg.State.SessionId
	target := reg.State.Threads[0]
	require.NotZero(t, target.Unread)

	state, err := f.svc.SelectThread(ctx, sid, target.Id)
	require.NoError(t, err)
	assert.Zero(t, state.Threads[0].Unread)
	assert.Equal(t, reg.State.Threads[2].Unread, state.Threads[2].Unread)

	state, err = f.svc.SelectThread(ctx, sid, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, state.CurrentThreadId)
}

func TestChatServiceSetCaseStatus(t *testing.T) {
	f := newChatFixture(constant.VariantAltron)
	ctx := context.Background()
	reg := f.register(t, constant.RoleManager)
	sid := reg.State.SessionId
	threadId := reg.State.Threads[1].Id

	thread, err := f.svc.SetCaseStatus(ctx, sid, threadId, &dto.SetCaseStatusRequest{Status: constant.CaseStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, constant.CaseStatusCompleted, thread.CaseStatus)
	assert.Contains(t, f.publisher.types(), constant.EventCaseStatusChanged)

	missing, err := f.svc.SetCaseStatus(ctx, sid, uuid.New(), &dto.SetCaseStatusRequest{Status: constant.CaseStatusNew})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChatServiceCloseReleasesBlobs(t *testing.T) {
	f := newChatFixture(constant.VariantBizChat)
	ctx := context.Background()
	sid := f.register(t, constant.RoleClient).State.SessionId

	_, err := f.svc.UploadFile(ctx, sid, &dto.UploadFileRequest{Name: "a.txt", Data: []byte("a")})
	require.NoError(t, err)
	require.Equal(t, 1, f.blobs.Count())

	require.NoError(t, f.svc.Close(ctx, sid))

	assert.Zero(t, f.blobs.Count())
	assert.Zero(t, f.sessions.Count())
	types := f.publisher.types()
	assert.Equal(t, constant.EventSessionClosed, types[len(types)-1])

	_, err = f.svc.GetState(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestChatServiceVariant(t *testing.T) {
	legal := newChatFixture(constant.VariantAltron).svc.Variant()
	assert.Equal(t, "Альтрон", legal.Title)
	assert.True(t, legal.CaseStatusEnabled)
	assert.Len(t, legal.CaseStatuses, 4)

	lux := newChatFixture(constant.VariantLuxChat).svc.Variant()
	assert.False(t, lux.CaseStatusEnabled)
	assert.Empty(t, lux.CaseStatuses)
}
