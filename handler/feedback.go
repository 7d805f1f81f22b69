package handler

import (
	"bus_booking/model"
	"bus_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) SubmitFeedback(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateFeedbackInput)
	userId, err := callerId(c, 0)
	if err != nil {
		return forbidden(c, err)
	}
	feedback, err := h.Feedback.Submit(c.UserContext(), userId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, feedback)
}

func (h *Handler) GetBookingFeedback(c *fiber.Ctx) error {
	feedback, err := h.Feedback.GetForBooking(c.UserContext(), c.Locals("inputId").(uint))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, feedback)
}

func (h *Handler) FeedbackStatistics(c *fiber.Ctx) error {
	stats, err := h.Feedback.Statistics(c.UserContext(), c.Query("busName"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}
