// Package budgetio loads normalized budget documents from disk. Budgets
// arrive already normalized as JSON or YAML renditions of the
// UnifiedBudgetModel shape; raw statement parsing happens upstream.
package budgetio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/finsight/advisor-cli/internal/model"
)

// Load reads a budget document from path, decoding by file extension
// (.json, .yaml, .yml). A missing summary block is computed from the entry
// lists; an explicit one is trusted as written.
func Load(path string) (*model.UnifiedBudgetModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "budgetio: read %s", path)
	}

	var budget model.UnifiedBudgetModel
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &budget); err != nil {
			return nil, eris.Wrapf(err, "budgetio: parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &budget); err != nil {
			return nil, eris.Wrapf(err, "budgetio: parse %s", path)
		}
	default:
		return nil, eris.Errorf("budgetio: unsupported extension %q (want .json, .yaml, or .yml)", ext)
	}

	if err := Validate(&budget); err != nil {
		return nil, err
	}
	if budget.Summary == (model.BudgetSummary{}) {
		budget.Summary = budget.ComputeSummary()
	}
	return &budget, nil
}

// Validate checks entry-level consistency of a budget document.
func Validate(b *model.UnifiedBudgetModel) error {
	for i, in := range b.Income {
		if in.Name == "" {
			return eris.Errorf("budgetio: income[%d]: name is required", i)
		}
		if in.MonthlyAmount < 0 {
			return eris.Errorf("budgetio: income %q: negative monthly amount", in.Name)
		}
	}
	for i, ex := range b.Expenses {
		if ex.Name == "" {
			return eris.Errorf("budgetio: expenses[%d]: name is required", i)
		}
		if ex.MonthlyAmount < 0 {
			return eris.Errorf("budgetio: expense %q: negative monthly amount", ex.Name)
		}
	}
	for i, d := range b.Debts {
		if d.Name == "" {
			return eris.Errorf("budgetio: debts[%d]: name is required", i)
		}
		if d.Balance < 0 || d.InterestRate < 0 || d.MinimumPayment < 0 {
			return eris.Errorf("budgetio: debt %q: negative figure", d.Name)
		}
	}
	return nil
}
