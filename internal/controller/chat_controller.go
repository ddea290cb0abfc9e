package controller

import (
	"errors"
	"fmt"
	"io"

	"bizchat-be/internal/dto"
	"bizchat-be/internal/pkg/serverutils"
	"bizchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Variant(ctx *fiber.Ctx) error
	Register(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	SelectThread(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	UploadFile(ctx *fiber.Ctx) error
	DownloadFile(ctx *fiber.Ctx) error
	SetSection(ctx *fiber.Ctx) error
	SetCaseStatus(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	tokens  *serverutils.SessionTokens
}

func NewChatController(service service.IChatService, tokens *serverutils.SessionTokens) IChatController {
	return &chatController{service: service, tokens: tokens}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("/variant", c.Variant)
	h.Post("/register", c.Register)

	auth := serverutils.SessionMiddleware(c.tokens) // ✅ PROTECTED
	h.Get("/state", auth, c.GetState)
	h.Put("/threads/:id/select", auth, c.SelectThread)
	h.Put("/threads/:id/case-status", auth, c.SetCaseStatus)
	h.Post("/messages", auth, c.SendMessage)
	h.Post("/files", auth, c.UploadFile)
	h.Get("/files/:id/download", auth, c.DownloadFile)
	h.Put("/section", auth, c.SetSection)
	h.Delete("/session", auth, c.Close)
}

func (c *chatController) Variant(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get variant", c.service.Variant()))
}

func (c *chatController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success register", res))
}

func (c *chatController) GetState(ctx *fiber.Ctx) error {
	res, err := c.service.GetState(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get state", res))
}

func (c *chatController) SelectThread(ctx *fiber.Ctx) error {
	// Unparseable ids behave like unknown ones: nothing ends up selected.
	threadId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.SelectThread(ctx.UserContext(), serverutils.SessionID(ctx), threadId)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select thread", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) UploadFile(ctx *fiber.Ctx) error {
	sessionId := serverutils.SessionID(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		// No file selected: nothing to do.
		return ctx.JSON(serverutils.SuccessResponse("No file uploaded", &dto.UploadFileResponse{Uploaded: false}))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := c.service.UploadFile(ctx.UserContext(), sessionId, &dto.UploadFileRequest{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload file", res))
}

func (c *chatController) DownloadFile(ctx *fiber.Ctx) error {
	fileId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.DownloadFile(ctx.UserContext(), serverutils.SessionID(ctx), fileId)
	if err != nil {
		return toHTTPError(err)
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Name))
	return ctx.Send(res.Data)
}

func (c *chatController) SetSection(ctx *fiber.Ctx) error {
	var req dto.SetSectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetSection(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set section", res))
}

func (c *chatController) SetCaseStatus(ctx *fiber.Ctx) error {
	threadId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SetCaseStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetCaseStatus(ctx.UserContext(), serverutils.SessionID(ctx), threadId, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set case status", res))
}

func (c *chatController) Close(ctx *fiber.Ctx) error {
	if err := c.service.Close(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close session", nil))
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRegistrationRejected):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
