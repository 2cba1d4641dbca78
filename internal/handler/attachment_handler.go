package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/middleware"
	"github.com/campusboard/noticeboard/internal/service/attachment"
)

type AttachmentHandler struct {
	attachmentService attachment.Service
}

func NewAttachmentHandler(attachmentService attachment.Service) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Validation("file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return domain.Validation("failed to read uploaded file")
	}
	defer f.Close()

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	upload := domain.AttachmentUpload{
		FileName: fh.Filename,
		MimeType: mimeType,
		ByteSize: fh.Size,
		IsPublic: c.FormValue("is_public") == "true",
		Content:  f,
	}

	att, err := h.attachmentService.Upload(c.Context(), actor, upload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(att)
}

func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid attachment id")
	}

	att, rc, err := h.attachmentService.Download(c.Context(), actor, id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, att.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", att.OriginalName))
	return c.SendStream(rc, int(att.ByteSize))
}

func (h *AttachmentHandler) GetMetadata(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid attachment id")
	}

	att, err := h.attachmentService.GetMetadata(c.Context(), actor, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(att)
}

func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid attachment id")
	}

	if err := h.attachmentService.Delete(c.Context(), actor, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AttachmentHandler) ListMine(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	atts, err := h.attachmentService.ListMine(c.Context(), actor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(atts)
}
