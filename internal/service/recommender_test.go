package service

import (
	"context"
	"testing"
	"time"

	"carbon-trace/internal/domain"
)

func aggregateFor(username string, grocery float64, diet string) *domain.AggregateProfile {
	profile := &domain.AggregateProfile{
		Username:    username,
		Numerical:   make(map[string]float64),
		Categorical: make(map[string]domain.CategoricalAggregate),
		UpdatedAt:   time.Now().UTC(),
	}
	for _, col := range domain.NumericalFields {
		profile.Numerical[col] = 0
	}
	for _, col := range domain.CategoricalFields {
		profile.Categorical[col] = domain.NewCategoricalAggregate("base")
	}
	profile.Numerical["Monthly Grocery Bill"] = grocery
	profile.Categorical["Diet"] = domain.NewCategoricalAggregate(diet)
	return profile
}

func reductionFor(username string, attributes ...string) *domain.ReductionRecord {
	record := &domain.ReductionRecord{Username: username, ReducedAmount: 10}
	for _, attr := range attributes {
		record.ReducingAttributes = append(record.ReducingAttributes, domain.AttributionShare{Attribute: attr, Percent: 10})
	}
	return record
}

func TestRecommendNoPeers(t *testing.T) {
	aggregates := newFakeAggregateRepo()
	reductions := newFakeReductionRepo()
	svc := NewRecommenderService(aggregates, reductions)

	current := aggregateFor("ana", 100, "vegan")
	recommendations, err := svc.Recommend(context.Background(), "ana", current)
	if err != nil {
		t.Fatal(err)
	}
	if len(recommendations) != 0 {
		t.Fatalf("expected empty recommendations without peers, got %v", recommendations)
	}
}

func TestRecommendCountsPeerAttributes(t *testing.T) {
	aggregates := newFakeAggregateRepo()
	reductions := newFakeReductionRepo()
	svc := NewRecommenderService(aggregates, reductions)
	ctx := context.Background()

	// Tres pares con registros de reduccion, todos entran en el top 3.
	for _, username := range []string{"beto", "carla", "dani"} {
		_ = aggregates.Upsert(ctx, aggregateFor(username, 100, "vegan"))
	}
	_ = reductions.Upsert(ctx, reductionFor("beto", "Transport", "Diet"))
	_ = reductions.Upsert(ctx, reductionFor("carla", "Transport", "Recycling"))
	_ = reductions.Upsert(ctx, reductionFor("dani", "Transport", "Diet"))

	current := aggregateFor("ana", 100, "vegan")
	recommendations, err := svc.Recommend(ctx, "ana", current)
	if err != nil {
		t.Fatal(err)
	}

	want := []domain.Recommendation{
		{Attribute: "Transport", Count: 3},
		{Attribute: "Diet", Count: 2},
		{Attribute: "Recycling", Count: 1},
	}
	if len(recommendations) != len(want) {
		t.Fatalf("expected %d recommendations, got %v", len(want), recommendations)
	}
	for i, rec := range want {
		if recommendations[i] != rec {
			t.Fatalf("position %d: expected %+v got %+v", i, rec, recommendations[i])
		}
	}
}

func TestRecommendLimitsToTopFive(t *testing.T) {
	aggregates := newFakeAggregateRepo()
	reductions := newFakeReductionRepo()
	svc := NewRecommenderService(aggregates, reductions)
	ctx := context.Background()

	_ = aggregates.Upsert(ctx, aggregateFor("beto", 100, "vegan"))
	_ = reductions.Upsert(ctx, reductionFor("beto", "A", "B", "C", "D", "E", "F", "G"))

	recommendations, err := svc.Recommend(ctx, "ana", aggregateFor("ana", 100, "vegan"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recommendations) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recommendations))
	}
	// Empate de conteos: se preserva el orden de primera aparicion.
	for i, attr := range []string{"A", "B", "C", "D", "E"} {
		if recommendations[i].Attribute != attr || recommendations[i].Count != 1 {
			t.Fatalf("position %d: expected %s/1 got %+v", i, attr, recommendations[i])
		}
	}
}

func TestRecommendSkipsPeersWithoutReductions(t *testing.T) {
	aggregates := newFakeAggregateRepo()
	reductions := newFakeReductionRepo()
	svc := NewRecommenderService(aggregates, reductions)
	ctx := context.Background()

	_ = aggregates.Upsert(ctx, aggregateFor("beto", 100, "vegan"))
	_ = aggregates.Upsert(ctx, aggregateFor("carla", 120, "vegan"))
	_ = reductions.Upsert(ctx, reductionFor("carla", "Recycling"))

	recommendations, err := svc.Recommend(ctx, "ana", aggregateFor("ana", 110, "vegan"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recommendations) != 1 || recommendations[0].Attribute != "Recycling" {
		t.Fatalf("expected only Recycling from carla, got %v", recommendations)
	}
}

func TestRecommendPicksMostSimilarPeers(t *testing.T) {
	aggregates := newFakeAggregateRepo()
	reductions := newFakeReductionRepo()
	svc := NewRecommenderService(aggregates, reductions)
	ctx := context.Background()

	// Cuatro pares: el menos parecido no debe aportar atributos.
	for _, username := range []string{"beto", "carla", "dani"} {
		_ = aggregates.Upsert(ctx, aggregateFor(username, 100, "vegan"))
		_ = reductions.Upsert(ctx, reductionFor(username, "Transport"))
	}
	outlier := aggregateFor("zoe", 100, "vegan")
	for _, col := range domain.NumericalFields {
		outlier.Numerical[col] = -500
	}
	_ = aggregates.Upsert(ctx, outlier)
	_ = reductions.Upsert(ctx, reductionFor("zoe", "Waste Bag Size"))

	recommendations, err := svc.Recommend(ctx, "ana", aggregateFor("ana", 100, "vegan"))
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range recommendations {
		if rec.Attribute == "Waste Bag Size" {
			t.Fatalf("outlier peer should not be in top 3: %v", recommendations)
		}
	}
	if len(recommendations) != 1 || recommendations[0].Count != 3 {
		t.Fatalf("expected Transport counted 3 times, got %v", recommendations)
	}
}
