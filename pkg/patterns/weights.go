package patterns

// Category severity weights. Used both for per-match confidence scoring and
// for the final risk aggregation. Values are tunable; the classifier scenario
// tests pin the observable behavior.
var categoryWeights = map[Category]float64{
	CategoryMalware:         0.95,
	CategoryPII:             0.90,
	CategoryPhishing:        0.85,
	CategoryPromptInjection: 0.85,
	CategoryJailbreak:       0.85,
	CategorySelfHarm:        0.80,
	CategorySocialEng:       0.75,
	CategoryToxic:           0.65,
	CategoryMisinformation:  0.60,
	CategoryPropaganda:      0.80,
	CategoryCoordinated:     0.70,
}

// defaultCategoryWeight applies to categories without an entry, including
// operator-defined ones from YAML overrides.
const defaultCategoryWeight = 0.5

// Weight returns the severity weight for a category.
func Weight(cat Category) float64 {
	if w, ok := categoryWeights[cat]; ok {
		return w
	}
	return defaultCategoryWeight
}
