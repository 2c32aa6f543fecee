package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter renders one row per goal, or one row per field for a calculation
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if calc := report.Calculation; calc != nil && len(report.Goals) == 0 {
		if err := w.Write([]string{"Calculation", "Field", "Value", "Kind"}); err != nil {
			return nil, err
		}
		for _, f := range calc.Fields {
			value := ""
			if f.Value != nil {
				value = f.Value.String()
			}
			if err := w.Write([]string{calc.Name, f.Label, value, string(f.Kind)}); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	header := []string{"GoalID", "Title", "Currency", "TargetAmount", "Deadline", "CurrentAmount", "ProgressPercentage",
		"ProjectedFinalAmount", "ProbabilityOfSuccess", "RiskLevel", "RunRate", "RecommendedMonthly", "SimulatedSuccessRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Goals {
		row := []string{
			r.Goal.ID,
			r.Goal.Title,
			report.Currency,
			r.Goal.TargetAmount.StringFixed(2),
			r.Goal.Deadline.Format("2006-01-02"),
			"", "", "", "", "", "", "", "",
		}
		if a := r.Analysis; a != nil {
			row[5] = a.CurrentProgress.CurrentAmount.StringFixed(2)
			row[6] = a.CurrentProgress.ProgressPercentage.StringFixed(2)
			row[7] = a.ProjectedProgress.ProjectedFinalAmount.StringFixed(2)
			row[8] = a.ProjectedProgress.ProbabilityOfSuccess.StringFixed(4)
			row[9] = string(a.RiskAssessment.OverallRiskLevel)
			row[10] = a.CurrentProgress.RunRate.StringFixed(2)
		}
		if monthly, ok := recommendedContribution(r); ok {
			row[11] = monthly.StringFixed(2)
		}
		if r.Simulation != nil {
			row[12] = r.Simulation.SuccessRate.StringFixed(4)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if s := report.Summary; s != nil {
		if err := w.Write([]string{"", "TOTAL (" + strconv.Itoa(s.TotalGoals) + " goals)", report.Currency,
			s.TotalTargetAmount.StringFixed(2), "", s.TotalCurrentAmount.StringFixed(2),
			s.OverallProgressPercentage.StringFixed(2), "", "", "", "", "", ""}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
