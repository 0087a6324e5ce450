package catalog

import (
	"fmt"
	"strings"

	"github.com/omrilahav/cursor-for-designers/internal/achievements"
)

// Condition kinds accepted in catalog files.
const (
	KindTotal            = "total"
	KindCategory         = "category"
	KindLessons          = "lessons"
	KindAnyLesson        = "any-lesson"
	KindCategories       = "categories"
	KindPoints           = "points"
	KindCategoryComplete = "category-complete"
	KindAll              = "all"
	KindAny              = "any"
)

type conditionSpec struct {
	Kind       string          `yaml:"kind"`
	Min        int             `yaml:"min"`
	Category   string          `yaml:"category"`
	IDs        []string        `yaml:"ids"`
	Conditions []conditionSpec `yaml:"conditions"`
}

// compile turns a spec into a condition. A non-empty reason means the spec
// was malformed and the returned condition is achievements.Never.
func (c *Catalog) compile(spec *conditionSpec) (achievements.Condition, string) {
	if spec == nil {
		return never("missing condition")
	}

	kind := strings.TrimSpace(spec.Kind)
	switch kind {
	case KindTotal:
		if spec.Min < 1 {
			return never(fmt.Sprintf("%s: min must be at least 1, got %d", KindTotal, spec.Min))
		}
		return achievements.MinTotal{N: spec.Min}, ""

	case KindCategory:
		if strings.TrimSpace(spec.Category) == "" {
			return never(KindCategory + ": category is required")
		}
		if spec.Min < 1 {
			return never(fmt.Sprintf("%s: min must be at least 1, got %d", KindCategory, spec.Min))
		}
		return achievements.MinInCategory{Category: strings.TrimSpace(spec.Category), N: spec.Min}, ""

	case KindLessons, KindAnyLesson:
		ids := cleanIDs(spec.IDs)
		if len(ids) == 0 {
			return never(kind + ": ids must not be empty")
		}
		if kind == KindLessons {
			return achievements.CompletedAll{IDs: ids}, ""
		}
		return achievements.CompletedAny{IDs: ids}, ""

	case KindCategories:
		if spec.Min < 1 {
			return never(fmt.Sprintf("%s: min must be at least 1, got %d", KindCategories, spec.Min))
		}
		return achievements.MinCategories{N: spec.Min}, ""

	case KindPoints:
		if spec.Min < 1 {
			return never(fmt.Sprintf("%s: min must be at least 1, got %d", KindPoints, spec.Min))
		}
		return achievements.MinPoints{N: spec.Min}, ""

	case KindCategoryComplete:
		category := strings.TrimSpace(spec.Category)
		if category == "" {
			return never(KindCategoryComplete + ": category is required")
		}
		lessons := c.LessonsIn(category)
		if len(lessons) == 0 {
			return never(fmt.Sprintf("%s: no catalog lessons in category %q", KindCategoryComplete, category))
		}
		ids := make([]string, len(lessons))
		for i, l := range lessons {
			ids[i] = l.ID
		}
		return achievements.CompletedAll{IDs: ids}, ""

	case KindAll, KindAny:
		if len(spec.Conditions) == 0 {
			return never(kind + ": conditions must not be empty")
		}
		nested := make([]achievements.Condition, 0, len(spec.Conditions))
		for i := range spec.Conditions {
			cond, reason := c.compile(&spec.Conditions[i])
			if reason != "" {
				// A malformed branch makes the whole composite malformed.
				return never(fmt.Sprintf("%s[%d]: %s", kind, i, reason))
			}
			nested = append(nested, cond)
		}
		if kind == KindAll {
			return achievements.All(nested), ""
		}
		return achievements.Any(nested), ""

	case "":
		return never("condition kind is required")

	default:
		return never(fmt.Sprintf("unknown condition kind %q", spec.Kind))
	}
}

func never(reason string) (achievements.Condition, string) {
	return achievements.Never{Reason: reason}, reason
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
