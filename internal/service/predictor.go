package service

import (
	"errors"

	"carbon-trace/internal/dataset"
	"carbon-trace/internal/similarity"
)

var ErrNoReference = errors.New("reference dataset not loaded")

// Predictor estima la huella buscando el registro de referencia mas similar.
// Sin entrenamiento: un escaneo lineal por consulta sobre la poblacion.
type Predictor struct {
	ref *dataset.Reference
}

func NewPredictor(ref *dataset.Reference) *Predictor {
	return &Predictor{ref: ref}
}

// Predict devuelve la huella del vecino mas cercano por similitud coseno.
// En empate gana la primera fila; la misma entrada siempre da la misma salida.
func (p *Predictor) Predict(encoded []float64) (float64, error) {
	if p.ref == nil || len(p.ref.Rows) == 0 {
		return 0, ErrNoReference
	}
	scores := similarity.Scores(encoded, p.ref.Rows)
	idx := similarity.ArgMax(scores)
	if idx < 0 {
		return 0, ErrNoReference
	}
	return p.ref.Footprints[idx], nil
}
