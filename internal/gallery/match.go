package gallery

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// MatchThreshold is the Euclidean distance below which a face is accepted.
const MatchThreshold = 0.5

// Result is the outcome of matching one query encoding.
type Result struct {
	Name     string
	Distance float64
	Matched  bool
}

// Match returns the nearest gallery entry when it is strictly closer than
// MatchThreshold, otherwise domain.UnknownName. The first entry wins a tie.
func Match(snap *Snapshot, query []float64) Result {
	unknown := Result{Name: domain.UnknownName, Distance: math.Inf(1)}
	if snap == nil || len(snap.Entries) == 0 || len(query) == 0 {
		return unknown
	}

	best := -1
	bestDist := math.Inf(1)
	for i, e := range snap.Entries {
		if len(e.Encoding) != len(query) {
			continue
		}
		d := floats.Distance(e.Encoding, query, 2)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best < 0 {
		return unknown
	}
	if bestDist < MatchThreshold {
		return Result{Name: snap.Entries[best].Name, Distance: bestDist, Matched: true}
	}
	return Result{Name: domain.UnknownName, Distance: bestDist}
}
