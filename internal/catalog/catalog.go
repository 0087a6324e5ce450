// Package catalog loads the static content catalog: known lessons, point
// rules, the level ladder and achievement definitions.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omrilahav/cursor-for-designers/internal/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/scoring"
)

//go:embed default.yaml
var defaultYAML []byte

// SupportedVersion is the catalog file format this build understands.
const SupportedVersion = 1

// Lesson is a known content item.
type Lesson struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// Catalog is a compiled catalog file.
type Catalog struct {
	Rules       scoring.Rules
	Levels      scoring.Levels
	Lessons     []Lesson
	Definitions []achievements.Definition

	// Warnings lists achievement conditions that could not be compiled.
	// Those achievements can never unlock.
	Warnings []Warning

	lessonIndex map[string]int
}

// Warning describes a malformed achievement condition.
type Warning struct {
	AchievementID string
	Reason        string
}

func (w Warning) String() string {
	return fmt.Sprintf("achievement %q: %s", w.AchievementID, w.Reason)
}

// file mirrors the YAML layout.
type file struct {
	Version int `yaml:"version"`
	Points  struct {
		Default    *int           `yaml:"default"`
		Categories map[string]int `yaml:"categories"`
	} `yaml:"points"`
	Levels []struct {
		Level     int    `yaml:"level"`
		Name      string `yaml:"name"`
		MinPoints int    `yaml:"min_points"`
	} `yaml:"levels"`
	Lessons      []Lesson          `yaml:"lessons"`
	Achievements []achievementSpec `yaml:"achievements"`
}

type achievementSpec struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Icon        string         `yaml:"icon"`
	Condition   *conditionSpec `yaml:"condition"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse compiles a catalog from YAML. Structural problems (bad YAML, duplicate
// IDs, an invalid level ladder) are errors; malformed achievement conditions
// only produce warnings.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if f.Version != 0 && f.Version != SupportedVersion {
		return nil, fmt.Errorf("unsupported catalog version %d", f.Version)
	}

	c := &Catalog{
		Rules:       scoring.DefaultRules(),
		lessonIndex: make(map[string]int),
	}
	if f.Points.Default != nil {
		c.Rules.DefaultPoints = *f.Points.Default
	}
	if len(f.Points.Categories) > 0 {
		c.Rules.CategoryPoints = f.Points.Categories
	}

	if len(f.Levels) == 0 {
		c.Levels = scoring.DefaultLevels()
	} else {
		ls := make([]scoring.Level, len(f.Levels))
		for i, l := range f.Levels {
			ls[i] = scoring.Level{Number: l.Level, Name: l.Name, MinPoints: l.MinPoints}
		}
		levels, err := scoring.NewLevels(ls)
		if err != nil {
			return nil, fmt.Errorf("levels: %w", err)
		}
		c.Levels = levels
	}

	for _, l := range f.Lessons {
		l.ID = strings.TrimSpace(l.ID)
		if l.ID == "" {
			return nil, errors.New("lesson with empty id")
		}
		if _, dup := c.lessonIndex[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %q", l.ID)
		}
		l.Category = strings.TrimSpace(l.Category)
		c.lessonIndex[l.ID] = len(c.Lessons)
		c.Lessons = append(c.Lessons, l)
	}

	seen := make(map[string]bool)
	for _, a := range f.Achievements {
		a.ID = strings.TrimSpace(a.ID)
		if a.ID == "" {
			return nil, errors.New("achievement with empty id")
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true

		cond, reason := c.compile(a.Condition)
		if reason != "" {
			c.Warnings = append(c.Warnings, Warning{AchievementID: a.ID, Reason: reason})
		}
		c.Definitions = append(c.Definitions, achievements.Definition{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Condition:   cond,
		})
	}

	return c, nil
}

// Lesson returns the catalog entry for id, ignoring surrounding whitespace.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	i, ok := c.lessonIndex[strings.TrimSpace(id)]
	if !ok {
		return Lesson{}, false
	}
	return c.Lessons[i], true
}

// LessonsIn returns the catalog lessons of category in file order.
func (c *Catalog) LessonsIn(category string) []Lesson {
	var out []Lesson
	for _, l := range c.Lessons {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}

// Categories returns the distinct lesson categories in sorted order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range c.Lessons {
		if !seen[l.Category] {
			seen[l.Category] = true
			out = append(out, l.Category)
		}
	}
	sort.Strings(out)
	return out
}

// definition returns the achievement definition for id.
func (c *Catalog) definition(id string) (achievements.Definition, bool) {
	for _, d := range c.Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return achievements.Definition{}, false
}
