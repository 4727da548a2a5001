package classifier

import (
	"github.com/guardianhq/guardian/pkg/graph"
	"github.com/guardianhq/guardian/pkg/patterns"
)

// Aggregation tunables. Adjusting these reshapes the 0-100 scale without
// touching per-rule confidence.
const (
	// Category confidence lift per extra match in the category.
	occurrenceLift  = 0.10
	categoryConfCap = 0.95

	// Extra weight per additional social engineering match.
	socialWeightLift = 0.15

	// The weighted confidence sum maps onto 0-100 through this scale.
	riskScale = 70

	// Graph contribution bases; coordination raises the stake.
	graphBaseCoordinated = 25.0
	graphBasePlain       = 20.0
	graphFactorLift      = 0.10

	// Synthetic coordination threat confidence.
	coordConfOffset = 0.30
	coordConfCap    = 0.90
)

func categoryConfidence(top float64, occurrences int) float64 {
	if occurrences <= 1 {
		return top
	}
	conf := top * (1 + occurrenceLift*float64(occurrences-1))
	if conf > categoryConfCap {
		conf = categoryConfCap
	}
	return conf
}

// coordinationThreat synthesizes the coordinated_behavior threat from graph
// features when coordination was detected.
func coordinationThreat(g graph.Features) (Threat, bool) {
	if !g.CoordinationDetected {
		return Threat{}, false
	}
	conf := g.GraphScore + coordConfOffset
	if conf > coordConfCap {
		conf = coordConfCap
	}
	return Threat{
		Category:        patterns.CategoryCoordinated,
		ConfidenceScore: conf,
		Details:         "coordinated posting indicators in entity graph",
	}, true
}

// riskScore maps threats, intel factors and graph features onto 0-100.
//
// Each threat contributes its confidence times its category weight; the
// social engineering weight grows with the number of matched social patterns.
// Intel risk factors are added unweighted. The sum is scaled, then the graph
// contribution is added on top and the total clamped.
func riskScore(threats []Threat, socialMatches int, intelFactors map[string]float64, g graph.Features) int {
	sum := 0.0
	for _, t := range threats {
		w := patterns.Weight(t.Category)
		if t.Category == patterns.CategorySocialEng && socialMatches > 1 {
			w *= 1 + socialWeightLift*float64(socialMatches-1)
		}
		sum += t.ConfidenceScore * w
	}
	for _, v := range intelFactors {
		sum += v
	}

	score := int(sum * riskScale)
	if score > 100 {
		score = 100
	}

	if g.GraphScore > 0 {
		base := graphBasePlain
		if g.CoordinationDetected {
			base = graphBaseCoordinated
		}
		factorCount := len(g.RiskFactors) + len(intelFactors)
		score += int(base * g.GraphScore * (1 + graphFactorLift*float64(factorCount)))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
