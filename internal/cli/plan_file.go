package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"gopkg.in/yaml.v3"
)

// PlanFile is a budget plan written by hand:
//
//	settings:
//	  budgetWeeks: 4
//	  totalBudget: 100000
//	items:
//	  - name: Transport
//	    cost: 2000
//	    type: recurring
//	    frequency: workdays
//	    durationWeeks: 4
//	    category: transportation
type PlanFile struct {
	Settings *PlanSettings `yaml:"settings"`
	Items    []PlanItem    `yaml:"items"`
}

type PlanSettings struct {
	BudgetWeeks int     `yaml:"budgetWeeks"`
	TotalBudget float64 `yaml:"totalBudget"`
}

// PlanItem fields are kept as written and parsed the same way as form input.
type PlanItem struct {
	Name          string `yaml:"name"`
	Cost          string `yaml:"cost"`
	Type          string `yaml:"type"`
	Frequency     string `yaml:"frequency"`
	DurationWeeks string `yaml:"durationWeeks"`
	Category      string `yaml:"category"`
}

func (i PlanItem) Draft() registry.Draft {
	return registry.Draft{
		Name:          i.Name,
		Cost:          i.Cost,
		Type:          i.Type,
		Frequency:     i.Frequency,
		DurationWeeks: i.DurationWeeks,
		Category:      i.Category,
	}
}

func LoadPlanFile(path string) (PlanFile, error) {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return PlanFile{}, fmt.Errorf("unsupported plan file format: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, fmt.Errorf("error reading plan file: %w", err)
	}
	return ParsePlan(data)
}

func ParsePlan(data []byte) (PlanFile, error) {
	var plan PlanFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return PlanFile{}, fmt.Errorf("error parsing plan file: %w", err)
	}
	return plan, nil
}

// Build replays the plan into a fresh registry, adding the items in file order. Plan settings
// override defaults.
func (p PlanFile) Build(defaults expense.BudgetSettings, clock utils.Clock) (*registry.Registry, error) {
	settings := defaults
	if p.Settings != nil {
		settings = expense.BudgetSettings{BudgetWeeks: p.Settings.BudgetWeeks, TotalBudget: p.Settings.TotalBudget}
	}
	r, err := registry.NewRegistry(settings, clock)
	if err != nil {
		return nil, fmt.Errorf("invalid plan settings: %w", err)
	}
	for i, item := range p.Items {
		if _, err := r.Add(item.Draft()); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i+1, item.Name, err)
		}
	}
	return r, nil
}
