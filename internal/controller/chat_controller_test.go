package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/dto"
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/pkg/serverutils"
	"bizchat-be/internal/repository/memory"
	"bizchat-be/internal/service"
	"bizchat-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardPublisher struct{}

func (discardPublisher) Publish(ctx context.Context, event events.ChatEvent) error { return nil }

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newTestApp(t *testing.T, variantCode string) *fiber.App {
	t.Helper()
	return newTestAppWithTTL(t, variantCode, time.Hour)
}

func newTestAppWithTTL(t *testing.T, variantCode string, ttl time.Duration) *fiber.App {
	t.Helper()

	tokens := serverutils.NewSessionTokens("test-secret")
	chatService := service.NewChatService(
		constant.LookupVariant(variantCode),
		memory.NewSessionRepository(ttl),
		memory.NewBlobRepository(),
		tokens,
		discardPublisher{},
		logger.NewNop(),
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNop()))
	NewChatController(chatService, tokens).RegisterRoutes(app.Group("/api"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *http.Response) envelope[T] {
	t.Helper()
	defer res.Body.Close()

	var out envelope[T]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func register(t *testing.T, app *fiber.App, role string) *dto.RegisterResponse {
	t.Helper()

	res := doJSON(t, app, http.MethodPost, "/api/chat/v1/register", "", dto.RegisterRequest{
		Role:       role,
		FirstName:  "Иван",
		LastName:   "Петров",
		MiddleName: "Сергеевич",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	return decode[*dto.RegisterResponse](t, res).Data
}

func TestRegisterClient(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)

	reg := register(t, app, constant.RoleClient)
	require.NotEmpty(t, reg.Token)
	assert.True(t, reg.State.Authenticated)
	require.Len(t, reg.State.Threads, 1)
	require.NotNil(t, reg.State.CurrentThreadId)
	assert.Equal(t, reg.State.Threads[0].Id, *reg.State.CurrentThreadId)
	assert.Equal(t, "ИП", reg.State.User.Initials)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)

	res := doJSON(t, app, http.MethodPost, "/api/chat/v1/register", "", dto.RegisterRequest{
		Role:      constant.RoleClient,
		FirstName: "Иван",
		LastName:  "Петров",
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = doJSON(t, app, http.MethodPost, "/api/chat/v1/register", "", dto.RegisterRequest{
		Role:       constant.RoleClient,
		FirstName:  "   ",
		LastName:   "Петров",
		MiddleName: "Сергеевич",
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)

	res := doJSON(t, app, http.MethodGet, "/api/chat/v1/state", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res = doJSON(t, app, http.MethodGet, "/api/chat/v1/state", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestSendMessage(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleClient)

	res := doJSON(t, app, http.MethodPost, "/api/chat/v1/messages", reg.Token, dto.SendMessageRequest{Text: "Добрый день"})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	sent := decode[*dto.SendMessageResponse](t, res).Data
	assert.True(t, sent.Sent)
	assert.Equal(t, "Добрый день", sent.Thread.LastMessage)
	assert.Nil(t, sent.Notification)

	res = doJSON(t, app, http.MethodPost, "/api/chat/v1/messages", reg.Token, dto.SendMessageRequest{Text: "  "})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.False(t, decode[*dto.SendMessageResponse](t, res).Data.Sent)

	res = doJSON(t, app, http.MethodGet, "/api/chat/v1/state", reg.Token, nil)
	state := decode[*dto.SessionStateResponse](t, res).Data
	require.Len(t, state.Messages, 1)
}

func TestUploadAndDownloadFile(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleClient)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "contract.pdf")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 2048))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	uploaded := decode[*dto.UploadFileResponse](t, res).Data
	require.True(t, uploaded.Uploaded)
	assert.Equal(t, "2.0 KB", uploaded.File.Size)
	assert.Equal(t, "Загружен файл: contract.pdf", uploaded.Message.Text)

	res = doJSON(t, app, http.MethodGet, "/api/chat/v1/files/"+uploaded.File.Id.String()+"/download", reg.Token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Len(t, data, 2048)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "contract.pdf")
}

func TestUploadWithoutFileIsNoop(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleClient)

	res := doJSON(t, app, http.MethodPost, "/api/chat/v1/files", reg.Token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.False(t, decode[*dto.UploadFileResponse](t, res).Data.Uploaded)
}

func TestSectionAndThreadSelection(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleManager)
	require.Len(t, reg.State.Threads, 3)

	res := doJSON(t, app, http.MethodPut, "/api/chat/v1/section", reg.Token, dto.SetSectionRequest{Section: constant.SectionFiles})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, constant.SectionFiles, decode[*dto.SessionStateResponse](t, res).Data.Section)

	res = doJSON(t, app, http.MethodPut, "/api/chat/v1/section", reg.Token, dto.SetSectionRequest{Section: "billing"})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	third := reg.State.Threads[2]
	res = doJSON(t, app, http.MethodPut, "/api/chat/v1/threads/"+third.Id.String()+"/select", reg.Token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	state := decode[*dto.SessionStateResponse](t, res).Data
	require.NotNil(t, state.CurrentThreadId)
	assert.Equal(t, third.Id, *state.CurrentThreadId)
	assert.Equal(t, 0, state.Threads[2].Unread)

	res = doJSON(t, app, http.MethodPut, "/api/chat/v1/threads/not-a-thread/select", reg.Token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Nil(t, decode[*dto.SessionStateResponse](t, res).Data.CurrentThreadId)
}

func TestSetCaseStatus(t *testing.T) {
	app := newTestApp(t, constant.VariantAltron)
	reg := register(t, app, constant.RoleManager)
	thread := reg.State.Threads[0]

	res := doJSON(t, app, http.MethodPut, "/api/chat/v1/threads/"+thread.Id.String()+"/case-status", reg.Token,
		dto.SetCaseStatusRequest{Status: constant.CaseStatusCompleted})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, constant.CaseStatusCompleted, decode[*dto.ThreadResponse](t, res).Data.CaseStatus)
}

func TestCloseSession(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleClient)

	res := doJSON(t, app, http.MethodDelete, "/api/chat/v1/session", reg.Token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res = doJSON(t, app, http.MethodGet, "/api/chat/v1/state", reg.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestActiveSessionOutlivesTTL(t *testing.T) {
	ttl := 300 * time.Millisecond
	app := newTestAppWithTTL(t, constant.VariantBizChat, ttl)
	reg := register(t, app, constant.RoleClient)

	// Keep the session busy for three TTLs; every request slides its expiry.
	deadline := time.Now().Add(3 * ttl)
	for time.Now().Before(deadline) {
		time.Sleep(ttl / 4)
		res := doJSON(t, app, http.MethodGet, "/api/chat/v1/state", reg.Token, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)
	}

	// Left idle, it expires and the same token now reports a dead session.
	assert.Eventually(t, func() bool {
		res := doJSON(t, app, http.MethodGet, "/api/chat/v1/state", reg.Token, nil)
		return res.StatusCode == fiber.StatusNotFound
	}, 5*ttl, ttl/4)
}

func TestLongMessageIsAccepted(t *testing.T) {
	app := newTestApp(t, constant.VariantBizChat)
	reg := register(t, app, constant.RoleClient)

	text := strings.Repeat("длинное сообщение ", 500)
	res := doJSON(t, app, http.MethodPost, "/api/chat/v1/messages", reg.Token, dto.SendMessageRequest{Text: text})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	sent := decode[*dto.SendMessageResponse](t, res).Data
	assert.True(t, sent.Sent)
	assert.Equal(t, text, sent.Message.Text)
}

func TestVariant(t *testing.T) {
	app := newTestApp(t, constant.VariantAltron)

	res := doJSON(t, app, http.MethodGet, "/api/chat/v1/variant", "", nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	v := decode[*dto.VariantResponse](t, res).Data
	assert.Equal(t, constant.VariantAltron, v.Code)
	assert.True(t, v.CaseStatusEnabled)
}
