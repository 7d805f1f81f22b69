package handler

import (
	"bus_booking/middleware"
	"bus_booking/model"
	"bus_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func setAccessCookie(c *fiber.Ctx, token model.TokenData) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token.AccessToken,
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterUserInput)
	user, err := h.Auth.RegisterUser(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	input := c.Locals("input").(model.LoginInput)
	token, err := h.Auth.Login(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	setAccessCookie(c, token)
	return utils.SuccessResponse(c, fiber.StatusOK, token)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	me, err := h.Auth.Me(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, me)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) RegisterVendor(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterVendorInput)
	vendor, err := h.Auth.RegisterVendor(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, vendor)
}

func (h *Handler) LoginVendor(c *fiber.Ctx) error {
	input := c.Locals("input").(model.LoginInput)
	token, err := h.Auth.LoginVendor(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	setAccessCookie(c, token)
	return utils.SuccessResponse(c, fiber.StatusOK, token)
}

func (h *Handler) UpdateVendor(c *fiber.Ctx) error {
	input := c.Locals("input").(model.UpdateVendorInput)
	vendor, err := h.Auth.UpdateVendor(c.UserContext(), middleware.Claims(c).VendorId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, vendor)
}

func (h *Handler) ListVendors(c *fiber.Ctx) error {
	vendors, err := h.Auth.ListVendors(c.UserContext(), model.VendorStatus(c.Query("status")))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, vendors)
}

func (h *Handler) DecideVendor(approve bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Locals("inputId").(uint)
		var (
			vendor *model.Vendor
			err    error
		)
		if approve {
			vendor, err = h.Auth.ApproveVendor(c.UserContext(), id)
		} else {
			vendor, err = h.Auth.RejectVendor(c.UserContext(), id)
		}
		if err != nil {
			return utils.HandleError(c, err)
		}
		return utils.SuccessResponse(c, fiber.StatusOK, vendor)
	}
}
