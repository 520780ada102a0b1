package matching

import (
	"sort"

	"github.com/kaamsetu/kaamsetu/internal/geo"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Weights controls how skill fit, reliability and proximity combine into a
// single 0-5 match score. The defaults favor skill fit, then reliability,
// then proximity; they are tunable, not load-bearing.
type Weights struct {
	Skill       float64 `json:"skill"`
	Reliability float64 `json:"reliability"`
	Proximity   float64 `json:"proximity"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{Skill: 0.5, Reliability: 0.3, Proximity: 0.2}
}

// proximityHorizonKm is where the distance contribution floors at zero:
// 5 - d/10 reaches 0 at 50 km.
const proximityHorizonKm = 50.0

// Score combines the components into the weighted 0-5 composite.
func (w Weights) Score(skillsPct, reliability, distanceKm float64) float64 {
	proximity := 5.0 - distanceKm/(proximityHorizonKm/5.0)
	if proximity < 0 {
		proximity = 0
	}
	return w.Skill*(skillsPct/100.0*5.0) + w.Reliability*reliability + w.Proximity*proximity
}

// RankCandidates scores every eligible worker against the posting and
// returns an ordered candidate list. Workers with zero skill overlap are
// excluded entirely. This is a pure query: no assignment happens here, and
// slightly stale availability in the pool is acceptable.
//
// Ordering is deterministic: match score descending, then distance
// ascending, then worker id ascending.
func RankCandidates(job *types.JobPosting, pool []*types.WorkerProfile, weights Weights) []types.CandidateMatch {
	matches := make([]types.CandidateMatch, 0, len(pool))

	for _, worker := range pool {
		if !worker.IsAvailable || job.HasWorker(worker.ID) {
			continue
		}

		skillsPct, breakdown := SkillsMatchPercentage(job.RequiredSkills, worker)
		if skillsPct == 0 {
			// No skill overlap at all: not a candidate.
			continue
		}

		distance := geo.DistanceKm(worker.Coordinates, job.Coordinates)

		var matched []types.Skill
		for _, m := range breakdown {
			if m.Met {
				matched = append(matched, m.Skill)
			}
		}

		matches = append(matches, types.CandidateMatch{
			WorkerID:              worker.ID,
			WorkerName:            worker.Name,
			DistanceKm:            distance,
			SkillsMatchPercentage: skillsPct,
			ReliabilityScore:      worker.ReliabilityScore,
			MatchScore:            weights.Score(skillsPct, worker.ReliabilityScore, distance),
			CertifiedForExpert:    certifiedForExpert(job.RequiredSkills, worker),
			MatchedSkills:         matched,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.WorkerID.String() < b.WorkerID.String()
	})

	return matches
}
