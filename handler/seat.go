package handler

import (
	"bus_booking/model"
	"bus_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetSeats(c *fiber.Ctx) error {
	scheduleId := c.Locals("inputId").(uint)
	seats, err := h.Seats.GetSeats(c.UserContext(), scheduleId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(model.ToSeatUI(seats))
}

// LockSeats answers {success, holdId} or {success: false, message}.
func (h *Handler) LockSeats(c *fiber.Ctx) error {
	input := c.Locals("input").(model.LockSeatsInput)
	userId, err := callerId(c, input.UserId)
	if err != nil {
		return forbidden(c, err)
	}

	hold, err := h.Seats.Lock(c.UserContext(), input.ScheduleId, input.SelectedSeatIds, userId, h.Seats.TTL())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(model.LockSeatsResponse{
		Success:   true,
		HoldId:    hold.ID,
		SeatIds:   hold.SeatIds(),
		ExpiresAt: hold.ExpiresAt,
	})
}

func (h *Handler) ReleaseHold(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ReleaseHoldInput)
	userId, err := callerId(c, 0)
	if err != nil {
		return forbidden(c, err)
	}
	if err := h.Seats.ReleaseOwned(c.UserContext(), input.HoldId, userId); err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "holdId": input.HoldId})
}

// UnlockExpired runs one sweep on demand. The periodic job does the same
// work, so clients calling this is only an optimization.
func (h *Handler) UnlockExpired(c *fiber.Ctx) error {
	result, err := h.Sweeper.SweepOnce(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"released": result.Released,
	})
}

func (h *Handler) AvailableCount(c *fiber.Ctx) error {
	scheduleId := c.Locals("inputId").(uint)
	count, err := h.Schedules.AvailableCount(c.UserContext(), scheduleId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"scheduleId":     scheduleId,
		"availableSeats": count,
	})
}
