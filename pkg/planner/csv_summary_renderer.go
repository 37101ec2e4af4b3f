package planner

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type SummaryRenderer interface {
	RenderSummary(summary Summary) (string, error)
}

type CsvSummaryRendererImpl struct {
}

func NewCsvSummaryRenderer() *CsvSummaryRendererImpl {
	return &CsvSummaryRendererImpl{}
}

// RenderSummary writes the item list followed by the totals and both breakdowns, separated by
// empty rows.
func (t *CsvSummaryRendererImpl) RenderSummary(summary Summary) (string, error) {
	data := make([][]string, 0, len(summary.Items)+len(summary.ByCategory)+len(summary.ByType)+12)

	data = append(data, []string{"Item", "Type", "Category", "Cost", "Frequency", "Weeks", "Effective cost"})
	for _, itemCost := range summary.Items {
		item := itemCost.Item
		frequency, weeks := "", ""
		if item.Frequency != nil {
			frequency = string(*item.Frequency)
		}
		if item.DurationWeeks != nil {
			weeks = strconv.Itoa(*item.DurationWeeks)
		}
		data = append(data, []string{
			item.Name,
			string(item.Type),
			string(item.Category),
			amountToString(item.Cost),
			frequency,
			weeks,
			amountToString(itemCost.EffectiveCost),
		})
	}

	data = append(data,
		[]string{},
		[]string{"Budget period (weeks)", strconv.Itoa(summary.Settings.BudgetWeeks)},
		[]string{"Total budget", amountToString(summary.Settings.TotalBudget)},
		[]string{"Total expenses", amountToString(summary.TotalExpenses)},
		[]string{"Remaining", amountToString(summary.RemainingBudget)},
	)

	data = append(data, []string{}, []string{"Category", "Amount"})
	for _, entry := range summary.ByCategory {
		data = append(data, []string{entry.Name, amountToString(entry.Value)})
	}

	data = append(data, []string{}, []string{"Type", "Amount"})
	for _, entry := range summary.ByType {
		data = append(data, []string{entry.Name, amountToString(entry.Value)})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func amountToString(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
