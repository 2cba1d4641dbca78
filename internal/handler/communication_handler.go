package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/middleware"
	"github.com/campusboard/noticeboard/internal/service/communication"
)

type CommunicationHandler struct {
	commService communication.Service
}

func NewCommunicationHandler(commService communication.Service) *CommunicationHandler {
	return &CommunicationHandler{commService: commService}
}

func (h *CommunicationHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	var input domain.CreateCommunicationInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	comm, err := h.commService.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comm)
}

func (h *CommunicationHandler) List(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	result, err := h.commService.List(c.Context(), actor, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CommunicationHandler) Get(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid communication id")
	}

	comm, err := h.commService.Get(c.Context(), actor, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comm)
}

func (h *CommunicationHandler) PostMessage(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid communication id")
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	msg, err := h.commService.PostMessage(c.Context(), actor, id, input.Text)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *CommunicationHandler) AddParticipant(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid communication id")
	}

	var input struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.UserID == uuid.Nil {
		return domain.Validation("user_id is required")
	}

	if err := h.commService.AddParticipant(c.Context(), actor, id, input.UserID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *CommunicationHandler) Close(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Validation("invalid communication id")
	}

	if err := h.commService.Close(c.Context(), actor, id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
