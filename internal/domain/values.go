package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QuestionnaireRecord es una respuesta cruda del cuestionario: nombre de campo a valor.
// Los valores llegan del JSON del request, asi que pueden ser string o numero.
type QuestionnaireRecord map[string]any

// NumericValue intenta coercionar un valor arbitrario a float64.
// Devuelve false cuando el valor no es numerico; el caller decide el fallback.
func NumericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// StringValue coercionar un valor arbitrario a su forma string cruda.
func StringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Round2 redondea a 2 decimales, la precision de todos los montos del sistema.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
