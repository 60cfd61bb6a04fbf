package domain

import "time"

// AggregateProfile es el resumen acumulado por usuario.
// Los campos numericos siguen la recurrencia (anterior + nuevo) / 2, que pondera
// lo reciente; los categoricos guardan el historial completo y derivan la moda.
type AggregateProfile struct {
	Username    string                          `json:"username"`
	Numerical   map[string]float64              `json:"numerical"`
	Categorical map[string]CategoricalAggregate `json:"categorical"`
	UpdatedAt   time.Time                       `json:"updated_at"`
}

// CategoricalAggregate es una estructura unica que posee el historial ordenado
// y el valor vigente derivado. Current siempre es recomputable desde History;
// Append es el unico mutador para que nunca diverjan.
type CategoricalAggregate struct {
	History []string `json:"history"`
	Current string   `json:"current"`
}

// NewCategoricalAggregate inicia el agregado con el primer valor enviado.
func NewCategoricalAggregate(value string) CategoricalAggregate {
	return CategoricalAggregate{
		History: []string{value},
		Current: value,
	}
}

// Append suma un valor al historial y recalcula la moda.
func (c CategoricalAggregate) Append(value string) CategoricalAggregate {
	history := append(append([]string(nil), c.History...), value)
	return CategoricalAggregate{
		History: history,
		Current: ModeOf(history),
	}
}

// ModeOf devuelve el valor mas frecuente; en empate gana el visto primero.
func ModeOf(values []string) string {
	counts := make(map[string]int, len(values))
	best := ""
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}
