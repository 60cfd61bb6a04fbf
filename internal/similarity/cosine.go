// Package similarity implementa la similitud coseno sobre vectores de features.
package similarity

import "math"

// Cosine devuelve la similitud coseno entre dos vectores.
// Por convencion, la similitud de un vector cero contra cualquier cosa es 0.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scores calcula la similitud del query contra cada fila, en orden.
func Scores(query []float64, rows [][]float64) []float64 {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = Cosine(query, row)
	}
	return scores
}

// ArgMax devuelve el indice del mayor score; en empate gana el primero.
// Devuelve -1 si no hay scores.
func ArgMax(scores []float64) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, s := range scores {
		if s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}
