package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"carbon-trace/internal/domain"
)

// Reference es el dataset de referencia ya codificado: columnas de features en
// el orden del CSV, vocabularios congelados y filas numericas. Se carga una vez
// al inicio del proceso y es inmutable, seguro para lecturas concurrentes.
type Reference struct {
	Columns      []string
	Vocabularies map[string]*Vocabulary
	Rows         [][]float64
	Footprints   []float64
	Categories   []string
}

// Load lee el CSV de referencia y ajusta los vocabularios.
func Load(path string) (*Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s: need a header and at least one row", path)
	}
	return New(records[0], records[1:])
}

// New ajusta vocabularios y codifica las filas a partir de celdas crudas.
// Una columna es categorica si alguna celda no vacia no parsea como numero;
// las celdas faltantes se rellenan con 0 en el fit.
func New(header []string, rows [][]string) (*Reference, error) {
	footprintIdx := -1
	for i, name := range header {
		if name == domain.TargetFootprint {
			footprintIdx = i
		}
	}
	if footprintIdx < 0 {
		return nil, fmt.Errorf("dataset missing target column %q", domain.TargetFootprint)
	}

	categoryIdx := -1
	var columns []string
	var featureIdx []int
	for i, name := range header {
		if name == domain.TargetCategory {
			categoryIdx = i
			continue
		}
		if i == footprintIdx {
			continue
		}
		columns = append(columns, name)
		featureIdx = append(featureIdx, i)
	}

	ref := &Reference{
		Columns:      columns,
		Vocabularies: make(map[string]*Vocabulary),
	}

	for pos, idx := range featureIdx {
		if columnIsCategorical(rows, idx) {
			ref.Vocabularies[columns[pos]] = NewVocabulary()
		}
	}

	for _, row := range rows {
		encoded := make([]float64, len(columns))
		for pos, idx := range featureIdx {
			cell := ""
			if idx < len(row) {
				cell = strings.TrimSpace(row[idx])
			}
			if vocab, ok := ref.Vocabularies[columns[pos]]; ok {
				if cell == "" {
					encoded[pos] = 0
					continue
				}
				encoded[pos] = float64(vocab.Add(cell))
				continue
			}
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				f = 0
			}
			encoded[pos] = f
		}
		ref.Rows = append(ref.Rows, encoded)

		footprint := 0.0
		if footprintIdx < len(row) {
			if f, err := strconv.ParseFloat(strings.TrimSpace(row[footprintIdx]), 64); err == nil {
				footprint = f
			}
		}
		ref.Footprints = append(ref.Footprints, footprint)

		category := ""
		if categoryIdx >= 0 && categoryIdx < len(row) {
			category = strings.TrimSpace(row[categoryIdx])
		}
		ref.Categories = append(ref.Categories, category)
	}

	return ref, nil
}

// FeatureCount es el largo de todo vector codificado.
func (r *Reference) FeatureCount() int {
	return len(r.Columns)
}

// Encode mapea un registro arbitrario al espacio de features de la referencia.
// Categorias no vistas y numericos invalidos o ausentes caen a 0: es politica
// de no fallar, no un error, y no se loguea.
func (r *Reference) Encode(record domain.QuestionnaireRecord) []float64 {
	encoded := make([]float64, len(r.Columns))
	for i, col := range r.Columns {
		raw, present := record[col]
		if vocab, ok := r.Vocabularies[col]; ok {
			if !present {
				continue
			}
			if code, ok := vocab.Code(domain.StringValue(raw)); ok {
				encoded[i] = float64(code)
			}
			continue
		}
		if !present {
			continue
		}
		if f, ok := domain.NumericValue(raw); ok {
			encoded[i] = f
		}
	}
	return encoded
}

func columnIsCategorical(rows [][]string, idx int) bool {
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return true
		}
	}
	return false
}
