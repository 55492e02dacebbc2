package handler

import (
	"github.com/gofiber/fiber/v2"
)

// GalleryService interface for the service
type GalleryService interface {
	FaceImagePath(filename string) (string, error)
	Gallery() []string
}

type GalleryHandler struct {
	service GalleryService
}

func NewGalleryHandler(service GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// GalleryResponse response for gallery listing
type GalleryResponse struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

// FaceImage GET /faces/:filename - serve a stored reference image
func (h *GalleryHandler) FaceImage(c *fiber.Ctx) error {
	path, err := h.service.FaceImagePath(c.Params("filename"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendFile(path)
}

// List GET /gallery - names currently loaded
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	names := h.service.Gallery()
	return c.JSON(GalleryResponse{
		Names: names,
		Count: len(names),
	})
}
