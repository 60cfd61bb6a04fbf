package domain

import (
	"encoding/json"
	"testing"
)

func TestAttributionShareJSON(t *testing.T) {
	record := ReductionRecord{
		Username:      "ana",
		ReducedAmount: 20,
		ReducingAttributes: []AttributionShare{
			{Attribute: "Transport", Percent: 75.5},
			{Attribute: "Diet", Percent: 24.5},
		},
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	// Cada atribucion viaja como mapa de una sola entrada.
	want := `{"username":"ana","reduced_amount":20,"reducing_attributes":[{"Transport":75.5},{"Diet":24.5}]}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", data, want)
	}

	var decoded ReductionRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.ReducingAttributes) != 2 {
		t.Fatalf("expected 2 shares, got %v", decoded.ReducingAttributes)
	}
	if decoded.ReducingAttributes[0] != record.ReducingAttributes[0] {
		t.Fatalf("round trip changed the share: %+v", decoded.ReducingAttributes[0])
	}
}

func TestAttributionShareUnmarshalRejectsMultipleEntries(t *testing.T) {
	var share AttributionShare
	if err := json.Unmarshal([]byte(`{"a":1,"b":2}`), &share); err == nil {
		t.Fatal("expected error for a map with two entries")
	}
	if err := json.Unmarshal([]byte(`{}`), &share); err == nil {
		t.Fatal("expected error for an empty map")
	}
}
