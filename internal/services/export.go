package services

import (
	"fmt"
	"math"
	"strings"
)

// BuildStatsCSV renders the export layout consumed by spreadsheet tools: a
// UTF-8 BOM plus a sep=, directive, the per-question percentage block over
// total attendance, a total row over attendance x question count, and one
// row per attendee with 100% / 0% / N/A cells.
func BuildStatsCSV(data *ExportData) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString("sep=,\n")

	stats := data.Stats
	questionCount := len(stats.Questions)

	b.WriteString(csvEscape(stats.Title+" exporting stats") + "\n")
	b.WriteString("\n")
	b.WriteString("Attendance\n")
	b.WriteString(fmt.Sprintf(",%d\n", stats.Attendance))
	b.WriteString("\n")

	b.WriteString(",Correct,Incorrect,Not answered\n")
	totalCorrect, totalIncorrect, totalNotAnswered := 0, 0, 0
	for i, q := range stats.Questions {
		b.WriteString(fmt.Sprintf("q%d,%s,%s,%s\n",
			i+1,
			percent(q.CorrectAnswers, stats.Attendance),
			percent(q.Incorrect, stats.Attendance),
			percent(q.NotAnswered, stats.Attendance),
		))
		totalCorrect += q.CorrectAnswers
		totalIncorrect += q.Incorrect
		totalNotAnswered += q.NotAnswered
	}
	totalDenominator := stats.Attendance * questionCount
	b.WriteString(fmt.Sprintf("total,%s,%s,%s\n",
		percent(totalCorrect, totalDenominator),
		percent(totalIncorrect, totalDenominator),
		percent(totalNotAnswered, totalDenominator),
	))
	b.WriteString("\n")

	b.WriteString("Attendance\n")
	header := make([]string, 0, questionCount+2)
	header = append(header, "")
	for i := 0; i < questionCount; i++ {
		header = append(header, fmt.Sprintf("q%d", i+1))
	}
	header = append(header, "total")
	b.WriteString(strings.Join(header, ",") + "\n")

	for _, attendee := range data.Attendees {
		row := make([]string, 0, questionCount+2)
		row = append(row, csvEscape(attendee.Name))
		correct := 0
		for _, outcome := range attendee.PerQuestion {
			switch {
			case outcome == nil:
				row = append(row, "N/A")
			case *outcome:
				row = append(row, "100%")
				correct++
			default:
				row = append(row, "0%")
			}
		}
		row = append(row, percent(correct, questionCount))
		b.WriteString(strings.Join(row, ",") + "\n")
	}

	return []byte(b.String())
}

// percent formats n/d as an integer percentage; a zero denominator reads 0%.
func percent(n, d int) string {
	if d == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(n)*100/float64(d))))
}

func csvEscape(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
	}
	return value
}
