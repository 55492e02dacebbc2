package provider

import "context"

// FaceEncoder is the external vision engine: it finds faces in an image and
// returns one encoding per face.
type FaceEncoder interface {
	// Encode returns the faces found in image, in detection order.
	// An image without faces yields an empty slice and a nil error.
	Encode(ctx context.Context, image []byte) ([]DetectedFace, error)

	// Name identifies the engine in logs and readiness output.
	Name() string
}

// DetectedFace is one face located in an image together with its encoding.
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Encoding    []float64   `json:"encoding"`
}

// BoundingBox represents the face area in the image, in pixels
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
