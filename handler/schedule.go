package handler

import (
	"bus_booking/middleware"
	"bus_booking/model"
	"bus_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) SearchSchedules(c *fiber.Ctx) error {
	input := c.Locals("input").(model.SearchScheduleInput)
	schedules, err := h.Schedules.Search(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(schedules)
}

func (h *Handler) GetSchedule(c *fiber.Ctx) error {
	schedule, err := h.Schedules.GetSchedule(c.UserContext(), c.Locals("inputId").(uint))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, schedule)
}

func (h *Handler) CreateSchedule(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateScheduleInput)
	schedule, err := h.Schedules.CreateSchedule(c.UserContext(), middleware.Claims(c).VendorId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, schedule)
}

func (h *Handler) ListVendorSchedules(c *fiber.Ctx) error {
	schedules, err := h.Schedules.ListVendorSchedules(c.UserContext(), middleware.Claims(c).VendorId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, schedules)
}

func (h *Handler) DeleteSchedule(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	if err := h.Schedules.DeleteSchedule(c.UserContext(), middleware.Claims(c).VendorId, id); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, id)
}
