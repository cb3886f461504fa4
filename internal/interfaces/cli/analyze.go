package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// documentFlags are the inputs shared by the commands that take a document.
type documentFlags struct {
	file     string
	sector   string
	state    string
	district string
	costCr   float64
	risks    string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "document text file, - for stdin")
	cmd.Flags().StringVar(&f.sector, "sector", "", "project sector, when known")
	cmd.Flags().StringVar(&f.state, "state", "", "project state, when known")
	cmd.Flags().StringVar(&f.district, "district", "", "project district, when known")
	cmd.Flags().Float64Var(&f.costCr, "cost-crore", 0, "estimated cost in crore, when known")
	cmd.Flags().StringVar(&f.risks, "risks", "", "JSON file with known risk factors")
}

func (f *documentFlags) structured() dpr.StructuredFields {
	return dpr.StructuredFields{
		Sector:        f.sector,
		State:         f.state,
		District:      f.district,
		EstimatedCost: f.costCr * dpr.Crore,
	}
}

func (f *documentFlags) riskFactors() ([]dpr.RiskFactor, error) {
	if f.risks == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.risks)
	if err != nil {
		return nil, fmt.Errorf("failed to read risks file: %w", err)
	}
	var risks []dpr.RiskFactor
	if err := json.Unmarshal(data, &risks); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "risks file must be a JSON array of risk factors")
	}
	return risks, nil
}

// readText reads path, or stdin for "-". Empty input is an error.
func readText(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New(errors.ErrCodeValidation, "document text is empty")
	}
	return string(data), nil
}

func NewAnalyzeCmd() *cobra.Command {
	var (
		doc         documentFlags
		documentID  string
		mentioned   []string
		skipSchemes bool
		openSession bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline on a document",
		Long: "Classify sections, extract entities, score the document against the\n" +
			"checklist, verify scheme references and estimate completion probability.",
		Example: "  dprctl analyze -f dpr.txt --state Odisha --sector roads\n" +
			"  cat dpr.txt | dprctl analyze -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, doc.file)
			if err != nil {
				return err
			}
			risks, err := doc.riskFactors()
			if err != nil {
				return err
			}
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			report, err := backend.Analyze(ctx, &analysis.AnalyzeRequest{
				DocumentID:       documentID,
				Text:             text,
				Structured:       doc.structured(),
				MentionedSchemes: mentioned,
				RiskFactors:      risks,
				Options:          analysis.Options{SkipSchemes: skipSchemes, OpenSession: openSession},
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, reportView{report})
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVar(&documentID, "document-id", "", "document id (generated when empty)")
	cmd.Flags().StringSliceVar(&mentioned, "scheme", nil, "scheme mentioned outside the text (repeatable)")
	cmd.Flags().BoolVar(&skipSchemes, "skip-schemes", false, "skip scheme verification")
	cmd.Flags().BoolVar(&openSession, "open-session", false, "open a what-if session for the derived profile")
	return cmd
}

// reportView renders an analysis report.
type reportView struct {
	r *analysis.AnalysisReport
}

func (v reportView) Raw() any { return v.r }

func (v reportView) TableHeaders() []string { return []string{"METRIC", "VALUE"} }

func (v reportView) TableRows() [][]string {
	r := v.r
	rows := [][]string{
		{"analysis_id", r.ID},
		{"document_id", r.DocumentID},
		{"sector", r.Features.Sector},
		{"state", r.Features.State},
	}
	if r.Classification != nil {
		rows = append(rows, []string{"sections", fmt.Sprintf("%d", len(r.Classification.Sections))})
	}
	if r.Extraction != nil {
		rows = append(rows, []string{"entities", fmt.Sprintf("%d", r.Extraction.TotalEntities)})
	}
	if r.Gap != nil {
		rows = append(rows,
			[]string{"checklist_version", r.Gap.ChecklistVersion},
			[]string{"gap_score", fmt.Sprintf("%.1f", r.Gap.OverallScore)},
			[]string{"completeness", fmt.Sprintf("%.1f%%", r.Gap.CompletenessPercent)},
		)
	}
	if r.Schemes != nil {
		rows = append(rows,
			[]string{"scheme_accuracy", fmt.Sprintf("%.2f", r.Schemes.Accuracy)},
			[]string{"scheme_opportunities", fmt.Sprintf("%d", len(r.Schemes.MissingOpportunities))},
		)
	}
	if p := r.Probability; p != nil {
		rows = append(rows,
			[]string{"completion_probability", fmt.Sprintf("%.1f%%", p.CompletionProbability)},
			[]string{"risk_level", string(p.Classification.Level)},
		)
	}
	if r.SessionID != "" {
		rows = append(rows, []string{"session_id", r.SessionID})
	}
	rows = append(rows, []string{"duration_ms", fmt.Sprintf("%d", r.DurationMs)})
	return rows
}

func (v reportView) String() string {
	var sb strings.Builder
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	if p := v.r.Probability; p != nil && len(p.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		writeRecommendations(&sb, p.Recommendations)
	}
	return sb.String()
}

func writeRecommendations(sb *strings.Builder, recs []probability.Recommendation) {
	for _, rec := range recs {
		fmt.Fprintf(sb, "  - [%s] %s\n", rec.Priority, rec.Title)
	}
}

//Personal.AI order the ending
