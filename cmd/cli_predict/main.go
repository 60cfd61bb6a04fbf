package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"carbon-trace/internal/dataset"
	"carbon-trace/internal/domain"
	"carbon-trace/internal/service"
	"carbon-trace/internal/similarity"
)

// Prototipo standalone: codifica un cuestionario JSON contra el CSV de
// referencia e imprime la huella estimada, sin base de datos ni servidor.
func main() {
	datasetPath := flag.String("dataset", "cleaned_individual_footprint.csv", "ruta del CSV de referencia")
	inputPath := flag.String("input", "", "archivo JSON con el cuestionario (default: stdin)")
	neighbors := flag.Int("neighbors", 0, "mostrar los N registros de referencia mas similares")
	flag.Parse()

	ref, err := dataset.Load(*datasetPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("dataset: %d filas, %d features\n", len(ref.Rows), ref.FeatureCount())

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	var record domain.QuestionnaireRecord
	if err := json.NewDecoder(in).Decode(&record); err != nil {
		log.Fatalf("decode input: %v", err)
	}

	encoded := ref.Encode(record)
	footprint, err := service.NewPredictor(ref).Predict(encoded)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("predicted footprint: %.2f\n", footprint)

	if *neighbors > 0 {
		scores := similarity.Scores(encoded, ref.Rows)
		idxs := make([]int, len(scores))
		for i := range idxs {
			idxs[i] = i
		}
		sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
		if len(idxs) > *neighbors {
			idxs = idxs[:*neighbors]
		}
		fmt.Println("most similar reference records:")
		for rank, idx := range idxs {
			fmt.Printf("  %d. row %d (similarity %.4f, footprint %.2f)\n", rank+1, idx, scores[idx], ref.Footprints[idx])
		}
	}
}
