package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Provider implements provider.FaceEncoder using the DeepFace API
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

func (p *Provider) Name() string {
	return "deepface"
}

// Encode sends the image to /represent. Encodings are scaled to unit length so
// that Euclidean distances stay in [0, 2] whatever model the server runs.
func (p *Provider) Encode(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	resp, err := p.client.Represent(ctx, toDataURL(image))
	if err != nil {
		if isNoFace(err) {
			return []provider.DetectedFace{}, nil
		}
		// any other 4xx is a rejection of this particular image
		if isClientError(err) {
			return nil, domain.ErrDecodeImage.WithError(err)
		}
		return nil, fmt.Errorf("encode faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Embedding) == 0 {
			continue
		}
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(result.FacialArea.X),
				Y:      float64(result.FacialArea.Y),
				Width:  float64(result.FacialArea.W),
				Height: float64(result.FacialArea.H),
			},
			Encoding: NormalizeEmbedding(result.Embedding),
		})
	}

	return faces, nil
}

// NormalizeEmbedding returns a unit-length copy of embedding. Zero vectors are returned unchanged.
func NormalizeEmbedding(embedding []float64) []float64 {
	out := make([]float64, len(embedding))
	copy(out, embedding)

	norm := floats.Norm(out, 2)
	if norm == 0 {
		return out
	}
	floats.Scale(1/norm, out)
	return out
}

// toDataURL wraps raw bytes the way DeepFace expects base64 input.
func toDataURL(image []byte) string {
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// Ensure Provider implements provider.FaceEncoder
var _ provider.FaceEncoder = (*Provider)(nil)
