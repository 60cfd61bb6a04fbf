package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReductionRecord resume cuanto y por que bajo la huella de un usuario.
// Se recalcula completo en cada analisis, no se mantiene incrementalmente.
type ReductionRecord struct {
	Username           string             `json:"username"`
	ReducedAmount      float64            `json:"reduced_amount"`
	ReducingAttributes []AttributionShare `json:"reducing_attributes"`
	UpdatedAt          time.Time          `json:"-"`
}

// AttributionShare es la porcion de la reduccion total atribuida a un campo.
// En el wire se serializa como mapa de una sola entrada {campo: porcentaje}.
type AttributionShare struct {
	Attribute string
	Percent   float64
}

func (a AttributionShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{a.Attribute: a.Percent})
}

func (a *AttributionShare) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("attribution share must have exactly one entry, got %d", len(m))
	}
	for k, v := range m {
		a.Attribute = k
		a.Percent = v
	}
	return nil
}
