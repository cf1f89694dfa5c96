package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Rahnken/recipe-tracker/internal/models"
)

// EmbeddingDims must match the vector column size of recipes.embedding.
const EmbeddingDims = 16

// GenerateEmbedding returns a deterministic bag-of-words embedding for text.
// Each lower-cased word is hashed into one of EmbeddingDims buckets and the
// result is L2 normalised, so texts sharing words end up close together.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, EmbeddingDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%EmbeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return pgvector.NewVector(vec)
}

// RecipeEmbeddingText is the text a recipe is indexed by.
func RecipeEmbeddingText(r *models.Recipe, ingredientNames []string) string {
	parts := []string{r.Name, r.Description}
	for _, m := range r.MealType {
		parts = append(parts, string(m))
	}
	parts = append(parts, ingredientNames...)
	return strings.Join(parts, " ")
}
