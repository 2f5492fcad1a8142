package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/usecase"
	"github.com/olekukonko/tablewriter"
)

var (
	headingColor = color.New(color.Bold)
	hintColor    = color.New(color.Faint)
)

func severityColor(s model.Severity) *color.Color {
	switch s {
	case model.SeverityNone, model.SeverityMinimal:
		return color.New(color.FgGreen, color.Bold)
	case model.SeverityMild:
		return color.New(color.FgYellow, color.Bold)
	case model.SeverityModerate:
		return color.New(color.FgHiYellow, color.Bold)
	case model.SeverityModeratelySevere, model.SeveritySevere:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Bold)
	}
}

func printTestTypes(w io.Writer, testTypes []model.TestType) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Questions", "Duration", "Scoring"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, tt := range testTypes {
		scoring := "no"
		if tt.HasSeverityTable() {
			scoring = "yes"
		}
		table.Append([]string{
			tt.ID.String(),
			tt.Title,
			strconv.Itoa(tt.QuestionCount()),
			tt.ExpectedDuration,
			scoring,
		})
	}
	table.Render()
}

func printQuestion(w io.Writer, state *usecase.SessionState) {
	q := state.Current
	if q == nil {
		return
	}

	fmt.Fprintln(w)
	headingColor.Fprintf(w, "[%d/%d] %s\n", state.Session.Navigator.Index+1, state.QuestionCount, q.Text)
	current, answered := state.Session.Responses.Answer(q.ID)
	for _, opt := range q.Options {
		marker := " "
		if answered && opt.Value == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %d) %s\n", marker, opt.Value, opt.Label)
	}
	hintColor.Fprintln(w, "Enter a number, b to go back, q to quit")
}

func printResult(w io.Writer, testType *model.TestType, result *model.AssessmentResult) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, testType.Title)
	fmt.Fprintf(w, "Score: %d / %d (answered %d of %d)\n",
		result.Score, result.MaxScore, result.Answered, result.QuestionCount)

	fmt.Fprint(w, "Severity: ")
	severityColor(result.Range.Severity).Fprintln(w, result.Range.Label)
	if result.Range.Description != "" {
		fmt.Fprintln(w, result.Range.Description)
	}

	if len(result.Range.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, r := range result.Range.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	hintColor.Fprintln(w, "This screening is not a diagnosis. Please talk to a professional about your results.")
}
