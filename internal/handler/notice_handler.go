package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/middleware"
	"github.com/campusboard/noticeboard/internal/service/notice"
)

type NoticeHandler struct {
	noticeService notice.Service
}

func NewNoticeHandler(noticeService notice.Service) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

func (h *NoticeHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	input := domain.NoticeInput{
		Title:     c.FormValue("title"),
		Body:      c.FormValue("body"),
		Category:  domain.NoticeCategory(c.FormValue("category")),
		Priority:  domain.NoticePriority(c.FormValue("priority")),
		VisibleTo: domain.NoticeAudience(c.FormValue("visible_to")),
	}

	uploads, closeAll, err := collectUploads(c, "files")
	if err != nil {
		return err
	}
	defer closeAll()

	created, err := h.noticeService.Create(c.Context(), actor, input, uploads)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *NoticeHandler) List(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	result, err := h.noticeService.List(c.Context(), actor, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NoticeHandler) Get(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid notice id")
	}

	result, err := h.noticeService.Get(c.Context(), actor, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NoticeHandler) Update(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid notice id")
	}

	input := domain.NoticeInput{
		Title:     c.FormValue("title"),
		Body:      c.FormValue("body"),
		Category:  domain.NoticeCategory(c.FormValue("category")),
		Priority:  domain.NoticePriority(c.FormValue("priority")),
		VisibleTo: domain.NoticeAudience(c.FormValue("visible_to")),
	}

	var removeIDs []uuid.UUID
	if form, err := c.MultipartForm(); err == nil {
		for _, raw := range form.Value["remove_attachment_ids"] {
			removeID, err := uuid.Parse(raw)
			if err != nil {
				return domain.Validation("invalid attachment id in remove_attachment_ids")
			}
			removeIDs = append(removeIDs, removeID)
		}
	}

	uploads, closeAll, err := collectUploads(c, "files")
	if err != nil {
		return err
	}
	defer closeAll()

	updated, err := h.noticeService.Update(c.Context(), actor, id, input, uploads, removeIDs)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *NoticeHandler) Delete(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid notice id")
	}

	if err := h.noticeService.Delete(c.Context(), actor, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NoticeHandler) ListAttachments(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid notice id")
	}

	atts, err := h.noticeService.ListAttachments(c.Context(), actor, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(atts)
}

// collectUploads opens every file under the multipart field, returning the
// uploads and a single closer for all of them.
func collectUploads(c *fiber.Ctx, field string) ([]domain.AttachmentUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request; treat as no files.
		return nil, func() {}, nil
	}

	files := form.File[field]
	uploads := make([]domain.AttachmentUpload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, domain.Validation("failed to read uploaded file")
		}
		opened = append(opened, f)

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		uploads = append(uploads, domain.AttachmentUpload{
			FileName: fh.Filename,
			MimeType: mimeType,
			ByteSize: fh.Size,
			Content:  f,
		})
	}

	return uploads, closeAll, nil
}
