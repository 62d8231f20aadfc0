// Package mealplan holds the built-in meal template catalog. Templates map
// a template key to weekday entries of breakfast/lunch/dinner records.
// Selection of a template is external (stored per user in nutrition
// preferences); the catalog itself is read-only content.
package mealplan

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Catalog is a read-only set of meal templates keyed by template key,
// then lowercase weekday name.
type Catalog struct {
	templates map[string]map[string]*models.DayMeals
}

// Load parses a YAML template catalog
func Load(raw []byte) (*Catalog, error) {
	templates := make(map[string]map[string]*models.DayMeals)
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse meal template catalog: %w", err)
	}
	return &Catalog{templates: templates}, nil
}

// LoadDefault loads the embedded template catalog
func LoadDefault() (*Catalog, error) {
	return Load(templatesYAML)
}

// TemplateKeys returns the available template keys
func (c *Catalog) TemplateKeys() []string {
	keys := make([]string, 0, len(c.templates))
	for k := range c.templates {
		keys = append(keys, k)
	}
	return keys
}

// HasTemplate reports whether the catalog contains the given template key
func (c *Catalog) HasTemplate(key string) bool {
	_, ok := c.templates[key]
	return ok
}

// DayMeals returns the meals a template defines for a weekday.
// Unknown template keys or weekdays yield nil (no meal actions), not an
// error: an absent slot is valid catalog content.
func (c *Catalog) DayMeals(templateKey string, day time.Weekday) *models.DayMeals {
	tpl, ok := c.templates[templateKey]
	if !ok {
		return nil
	}
	return tpl[WeekdayKey(day)]
}

// WeekdayKey converts a time.Weekday into the catalog's lowercase day key
func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}
