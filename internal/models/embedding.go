package models

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions must match the vector column size in migrations.
const EmbeddingDimensions = 16

// Embed returns a deterministic bag-of-words embedding for text. Each token
// is hashed into a bucket and the result is L2-normalized, so texts sharing
// words sit close together under pgvector's <-> operator.
func Embed(text string) pgvector.Vector {
	vec := make([]float32, EmbeddingDimensions)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%EmbeddingDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}
