package consultant

import (
	"fmt"
	"math"
	"strings"

	"github.com/garnizeh/benchwise/pkg/models"
)

// MergePolicy decides what happens to stored skills that a fresh
// extraction did not mention again.
type MergePolicy string

const (
	// ReplaceAll keeps only re-extracted skills: a prior skill absent
	// from the extraction is logged as Removed and dropped.
	ReplaceAll MergePolicy = "replace_all"
	// UnionPreserveUnseen keeps prior skills the extraction did not
	// mention; nothing is logged as Removed.
	UnionPreserveUnseen MergePolicy = "union_preserve_unseen"
)

// ParsePolicy maps a config string onto a MergePolicy.
func ParsePolicy(s string) (MergePolicy, error) {
	switch s {
	case "", string(ReplaceAll):
		return ReplaceAll, nil
	case string(UnionPreserveUnseen):
		return UnionPreserveUnseen, nil
	}
	return "", fmt.Errorf("unknown merge policy %q", s)
}

// ChangeKind classifies one entry of a merge change log.
type ChangeKind string

const (
	Added     ChangeKind = "added"
	Improved  ChangeKind = "improved"
	Decreased ChangeKind = "decreased"
	Unchanged ChangeKind = "unchanged"
	Removed   ChangeKind = "removed"
)

// SkillChange records what the merge did to one skill name.
type SkillChange struct {
	Name      string     `json:"name"`
	Kind      ChangeKind `json:"kind"`
	OldRating *int       `json:"old_rating,omitempty"`
	NewRating *int       `json:"new_rating,omitempty"`
}

// Merge reconciles a freshly extracted skill list against the stored
// one. Skills match on the case-folded name: models vary casing between
// analyses, so "react" and "React" are the same skill; the incoming
// display name wins. The merged list follows extraction order, with
// preserved unseen skills (union policy only) appended in their stored
// order.
func Merge(existing, extracted []models.Skill, policy MergePolicy) ([]models.Skill, []SkillChange) {
	byKey := make(map[string]models.Skill, len(existing))
	for _, s := range existing {
		byKey[skillKey(s.Name)] = s
	}

	merged := make([]models.Skill, 0, len(extracted))
	changes := make([]SkillChange, 0, len(extracted))
	seen := make(map[string]struct{}, len(extracted))

	for _, in := range extracted {
		key := skillKey(in.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		prev, ok := byKey[key]
		if !ok {
			nr := in.Rating
			merged = append(merged, in)
			changes = append(changes, SkillChange{Name: in.Name, Kind: Added, NewRating: &nr})
			continue
		}

		or, nr := prev.Rating, in.Rating
		kind := Unchanged
		switch {
		case nr > or:
			kind = Improved
		case nr < or:
			kind = Decreased
		}
		out := in
		out.ID = prev.ID
		merged = append(merged, out)
		changes = append(changes, SkillChange{Name: in.Name, Kind: kind, OldRating: &or, NewRating: &nr})
	}

	for _, s := range existing {
		if _, ok := seen[skillKey(s.Name)]; ok {
			continue
		}
		if policy == UnionPreserveUnseen {
			merged = append(merged, s)
			continue
		}
		or := s.Rating
		changes = append(changes, SkillChange{Name: s.Name, Kind: Removed, OldRating: &or})
	}

	return merged, changes
}

// AverageScore is the arithmetic mean of ratings rounded to the nearest
// integer, 0 for an empty list.
func AverageScore(skills []models.Skill) int {
	if len(skills) == 0 {
		return 0
	}
	sum := 0
	for _, s := range skills {
		sum += s.Rating
	}
	return int(math.Round(float64(sum) / float64(len(skills))))
}

func skillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
