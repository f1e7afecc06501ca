package domain

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		description string
		want        Category
	}{
		{"Roman ruins at the heart of the old city", CategoryAncient},
		{"Glacier-carved fjords on the western coast", CategoryNature},
		{"A major trade port during the colonial era", CategoryGrowth},
		{"A quiet village frozen in 1850", CategoryTime},
		// Nature keywords outrank ancient ones when both appear.
		{"Ancient temple on the rim of a volcano", CategoryNature},
		// Growth keywords lose to ancient ones.
		{"Trade routes of the Maurya empire", CategoryAncient},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.description); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestRepairFillsOnlyMissingCategories(t *testing.T) {
	c := NewClassifier()

	batch := SuggestionBatch{
		{Place: PlaceRecord{Description: "Roman ruins near the forum"}},
		{Place: PlaceRecord{Description: "Roman ruins near the forum", Category: CategoryNature}},
	}

	c.Repair(batch)

	if batch[0].Place.Category != CategoryAncient {
		t.Fatalf("expected derived category %q, got %q", CategoryAncient, batch[0].Place.Category)
	}
	if batch[1].Place.Category != CategoryNature {
		t.Fatalf("existing category must be preserved, got %q", batch[1].Place.Category)
	}

	// Running the pass again changes nothing.
	c.Repair(batch)
	if batch[0].Place.Category != CategoryAncient || batch[1].Place.Category != CategoryNature {
		t.Fatal("repair pass is not idempotent")
	}
}

func TestOverusedLandmarksIsACopy(t *testing.T) {
	first := OverusedLandmarks()
	if len(first) == 0 {
		t.Fatal("expected a non-empty overused landmark list")
	}
	first[0] = "mutated"
	if OverusedLandmarks()[0] == "mutated" {
		t.Fatal("callers must not be able to mutate the rule set")
	}
}
