package consultant

import (
	"testing"

	"github.com/garnizeh/benchwise/pkg/models"
)

func sk(name string, rating int) models.Skill {
	return models.Skill{Name: name, Rating: rating}
}

func TestMerge_ReplaceAll(t *testing.T) {
	existing := []models.Skill{sk("React", 5), sk("SQL", 7)}
	extracted := []models.Skill{sk("React", 8), sk("Go", 6)}

	merged, changes := Merge(existing, extracted, ReplaceAll)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged skills, got %d", len(merged))
	}
	if merged[0].Name != "React" || merged[0].Rating != 8 {
		t.Errorf("unexpected first skill: %+v", merged[0])
	}
	if merged[1].Name != "Go" {
		t.Errorf("unexpected second skill: %+v", merged[1])
	}

	kinds := map[string]ChangeKind{}
	for _, c := range changes {
		kinds[c.Name] = c.Kind
	}
	if kinds["React"] != Improved {
		t.Errorf("React: expected improved, got %s", kinds["React"])
	}
	if kinds["Go"] != Added {
		t.Errorf("Go: expected added, got %s", kinds["Go"])
	}
	if kinds["SQL"] != Removed {
		t.Errorf("SQL: expected removed, got %s", kinds["SQL"])
	}
}

func TestMerge_UnionPreservesUnseen(t *testing.T) {
	existing := []models.Skill{sk("SQL", 7), sk("Docker", 4)}
	extracted := []models.Skill{sk("Go", 6)}

	merged, changes := Merge(existing, extracted, UnionPreserveUnseen)

	if len(merged) != 3 {
		t.Fatalf("expected 3 merged skills, got %d", len(merged))
	}
	// extraction order first, then preserved skills in stored order
	want := []string{"Go", "SQL", "Docker"}
	for i, name := range want {
		if merged[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, merged[i].Name)
		}
	}
	for _, c := range changes {
		if c.Kind == Removed {
			t.Errorf("union policy produced a removal: %+v", c)
		}
	}
}

func TestMerge_CaseFoldedNames(t *testing.T) {
	existing := []models.Skill{{ID: 42, Name: "react", Rating: 5}}
	extracted := []models.Skill{sk("React", 5)}

	merged, changes := Merge(existing, extracted, ReplaceAll)

	if len(merged) != 1 {
		t.Fatalf("casing variants should collapse into one skill, got %d", len(merged))
	}
	if merged[0].ID != 42 {
		t.Errorf("expected stored id to carry over, got %d", merged[0].ID)
	}
	if merged[0].Name != "React" {
		t.Errorf("incoming display name should win, got %q", merged[0].Name)
	}
	if len(changes) != 1 || changes[0].Kind != Unchanged {
		t.Errorf("expected a single unchanged entry, got %+v", changes)
	}
}

func TestMerge_DuplicateExtractionSkipped(t *testing.T) {
	extracted := []models.Skill{sk("Go", 6), sk("go", 9)}

	merged, _ := Merge(nil, extracted, ReplaceAll)

	if len(merged) != 1 {
		t.Fatalf("expected duplicate to be skipped, got %d skills", len(merged))
	}
	if merged[0].Rating != 6 {
		t.Errorf("first occurrence should win, got rating %d", merged[0].Rating)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	extracted := []models.Skill{sk("Go", 6), sk("SQL", 7)}

	first, _ := Merge(nil, extracted, ReplaceAll)
	second, changes := Merge(first, extracted, ReplaceAll)

	if len(second) != len(first) {
		t.Fatalf("second merge changed length: %d vs %d", len(second), len(first))
	}
	for _, c := range changes {
		if c.Kind != Unchanged {
			t.Errorf("second merge with same input produced %s for %s", c.Kind, c.Name)
		}
	}
}

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		skills []models.Skill
		want   int
	}{
		{"empty", nil, 0},
		{"single", []models.Skill{sk("Go", 7)}, 7},
		{"rounds up", []models.Skill{sk("Go", 7), sk("SQL", 8)}, 8},
		{"mean", []models.Skill{sk("A", 2), sk("B", 4), sk("C", 6)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageScore(tt.skills); got != tt.want {
				t.Errorf("AverageScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != ReplaceAll {
		t.Errorf("empty string should default to replace_all, got %q err=%v", p, err)
	}
	if p, err := ParsePolicy("union_preserve_unseen"); err != nil || p != UnionPreserveUnseen {
		t.Errorf("got %q err=%v", p, err)
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
