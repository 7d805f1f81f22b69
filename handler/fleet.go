package handler

import (
	"bus_booking/constants"
	"bus_booking/middleware"
	"bus_booking/model"
	"bus_booking/utils"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateBus(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateBusInput)
	bus, err := h.Fleet.CreateBus(c.UserContext(), middleware.Claims(c).VendorId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, bus)
}

func (h *Handler) UpdateBus(c *fiber.Ctx) error {
	input := c.Locals("input").(model.UpdateBusInput)
	bus, err := h.Fleet.UpdateBus(c.UserContext(), middleware.Claims(c).VendorId, c.Locals("inputId").(uint), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bus)
}

func (h *Handler) ListBuses(c *fiber.Ctx) error {
	buses, err := h.Fleet.ListBuses(c.UserContext(), middleware.Claims(c).VendorId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, buses)
}

func (h *Handler) DeleteBus(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	if err := h.Fleet.DeleteBus(c.UserContext(), middleware.Claims(c).VendorId, id); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, id)
}

func (h *Handler) UploadBusImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_INPUT, err)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only PNG and JPG images are supported", fmt.Errorf("invalid file format %q", ext))
	}

	reader, err := file.Open()
	if err != nil {
		return utils.HandleError(c, err)
	}
	defer reader.Close()

	bus, err := h.Fleet.UploadBusImage(c.UserContext(), middleware.Claims(c).VendorId, c.Locals("inputId").(uint), reader)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bus)
}

func (h *Handler) ListBusTypes(c *fiber.Ctx) error {
	types, err := h.Fleet.ListBusTypes(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, types)
}

func (h *Handler) ListCities(c *fiber.Ctx) error {
	cities, err := h.Fleet.ListCities(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cities)
}

func (h *Handler) CreateCity(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateCityInput)
	city, err := h.Fleet.CreateCity(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, city)
}

func (h *Handler) CreateRoute(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateRouteInput)
	route, err := h.Fleet.CreateRoute(c.UserContext(), middleware.Claims(c).VendorId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, route)
}

func (h *Handler) ListRoutes(c *fiber.Ctx) error {
	routes, err := h.Fleet.ListRoutes(c.UserContext(), middleware.Claims(c).VendorId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, routes)
}
