package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"gonum.org/v1/gonum/floats"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

const (
	embeddingDimension = 128
	minImageSize       = 64
)

// Provider implements provider.FaceEncoder for tests and development. The same
// image bytes always produce the same encoding, so a registered image matches
// itself at distance 0.
type Provider struct {
	faces int
}

type Option func(*Provider)

// WithFaces sets how many faces every image contains. Zero simulates an image without faces.
func WithFaces(n int) Option {
	return func(p *Provider) {
		p.faces = n
	}
}

// New cria um Provider mock; por padrão cada imagem tem uma face
func New(opts ...Option) *Provider {
	p := &Provider{faces: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "mock"
}

// Encode derives one deterministic encoding per simulated face from the image hash
func (p *Provider) Encode(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrDecodeImage
	}

	faces := make([]provider.DetectedFace, 0, p.faces)
	for i := 0; i < p.faces; i++ {
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(10 + 100*i),
				Y:      10,
				Width:  80,
				Height: 80,
			},
			Encoding: generateEmbedding(image, i),
		})
	}

	return faces, nil
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte, face int) []float64 {
	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], uint64(face))

	h := sha256.New()
	_, _ = h.Write(image)
	_, _ = h.Write(salt[:])
	hash := h.Sum(nil)

	embedding := make([]float64, embeddingDimension)
	for i := range embedding {
		// chain hashes so all 128 components vary, not just the first 32
		if i > 0 && i%len(hash) == 0 {
			next := sha256.Sum256(hash)
			hash = next[:]
		}
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	if norm := floats.Norm(embedding, 2); norm > 0 {
		floats.Scale(1/norm, embedding)
	}

	return embedding
}

var _ provider.FaceEncoder = (*Provider)(nil)
