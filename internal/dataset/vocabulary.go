package dataset

// Vocabulary asigna codigos enteros estables a valores categoricos,
// en orden de primera aparicion. Queda congelado despues del fit.
type Vocabulary struct {
	codes  map[string]int
	values []string
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{codes: make(map[string]int)}
}

// Add registra el valor si es nuevo y devuelve su codigo.
func (v *Vocabulary) Add(raw string) int {
	if code, ok := v.codes[raw]; ok {
		return code
	}
	code := len(v.values)
	v.codes[raw] = code
	v.values = append(v.values, raw)
	return code
}

// Code devuelve el codigo de un valor ya visto en el fit.
func (v *Vocabulary) Code(raw string) (int, bool) {
	code, ok := v.codes[raw]
	return code, ok
}

func (v *Vocabulary) Len() int {
	return len(v.values)
}

// Values devuelve los valores en orden de codigo.
func (v *Vocabulary) Values() []string {
	return append([]string(nil), v.values...)
}
