package recommend

import "math"

// Weights controls how the sub-scores combine. The fields sum to 1.
type Weights struct {
	Location float64
	Cuisine  float64
	Price    float64
}

// DefaultWeights favors geography over taste.
var DefaultWeights = Weights{Location: 0.6, Cuisine: 0.3, Price: 0.1}

const (
	sameLocality  = 1.0
	sameCity      = 0.8
	otherLocation = 0.1

	unknownPriceLevel = 2
	priceSpan         = 4.0
)

// Scorer computes the weighted similarity between two restaurants.
type Scorer struct {
	Weights Weights
}

// NewScorer returns a Scorer using DefaultWeights.
func NewScorer() Scorer {
	return Scorer{Weights: DefaultWeights}
}

// Score returns the similarity of candidate to reference, in [0,1].
func (s Scorer) Score(reference, candidate Restaurant) float64 {
	return s.Weights.Location*LocationSimilarity(reference, candidate) +
		s.Weights.Cuisine*CuisineSimilarity(reference.Cuisines, candidate.Cuisines) +
		s.Weights.Price*PriceSimilarity(reference.PriceLevel, candidate.PriceLevel)
}

// LocationSimilarity is a step function over city and locality. It ignores
// coordinates.
func LocationSimilarity(reference, candidate Restaurant) float64 {
	refCity, candCity := canonical(reference.City), canonical(candidate.City)
	if refCity == "" || candCity == "" || refCity != candCity {
		return otherLocation
	}
	refLocality, candLocality := canonical(reference.Locality), canonical(candidate.Locality)
	if refLocality != "" && candLocality != "" && refLocality == candLocality {
		return sameLocality
	}
	return sameCity
}

// CuisineSimilarity is the Jaccard index of the two tag sets, compared
// case-insensitively. It is 0 when either side has no tags.
func CuisineSimilarity(a, b []string) float64 {
	setA, setB := tagSet(a), tagSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// PriceSimilarity falls off linearly with the price-level gap. Zero levels
// read as 2.
func PriceSimilarity(a, b int) float64 {
	if a == 0 {
		a = unknownPriceLevel
	}
	if b == 0 {
		b = unknownPriceLevel
	}
	diff := math.Abs(float64(a - b))
	return math.Max(0, 1-diff/priceSpan)
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if c := canonical(t); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}
