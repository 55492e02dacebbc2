package handler

import (
	"github.com/gofiber/fiber/v2"
)

type PageHandler struct {
	index []byte
}

func NewPageHandler(index []byte) *PageHandler {
	return &PageHandler{index: index}
}

// Index GET / - kiosk landing page
func (h *PageHandler) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(h.index)
}
