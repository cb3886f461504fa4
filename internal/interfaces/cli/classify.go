package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
)

func NewClassifyCmd() *cobra.Command {
	var (
		file        string
		threshold   float64
		maxSections int
		overlap     bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Split a document into typed sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, file)
			if err != nil {
				return err
			}
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			opts := section_classifier.DefaultOptions()
			if cmd.Flags().Changed("threshold") {
				opts.ConfidenceThreshold = threshold
			}
			if cmd.Flags().Changed("max-sections") {
				opts.MaxSections = maxSections
			}
			if cmd.Flags().Changed("overlap") {
				opts.EnableOverlapDetection = overlap
			}

			res, err := backend.Classify(ctx, text, &opts)
			if err != nil {
				return err
			}
			return PrintResult(cmd, classificationView{res})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "document text file, - for stdin")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.3, "minimum confidence for a typed section")
	cmd.Flags().IntVar(&maxSections, "max-sections", 0, "cap on returned sections")
	cmd.Flags().BoolVar(&overlap, "overlap", false, "detect overlapping sections")
	return cmd
}

type classificationView struct {
	r *section_classifier.ClassificationResult
}

func (v classificationView) Raw() any { return v.r }

func (v classificationView) TableHeaders() []string {
	return []string{"TYPE", "CONFIDENCE", "OFFSETS", "TITLE"}
}

func (v classificationView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.r.Sections))
	for _, s := range v.r.Sections {
		rows = append(rows, []string{
			string(s.Type),
			fmt.Sprintf("%.2f", s.Confidence),
			fmt.Sprintf("%d-%d", s.StartOffset, s.EndOffset),
			truncate(s.Title, 60),
		})
	}
	return rows
}

func (v classificationView) String() string {
	return FormatTable(v.TableHeaders(), v.TableRows()) +
		fmt.Sprintf("\n%d spans, %d unclassified, confidence %.2f\n",
			v.r.TotalSpans, v.r.UnclassifiedSpans, v.r.OverallConfidence)
}

func NewExtractCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract monetary, date, location and resource entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, file)
			if err != nil {
				return err
			}
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := backend.Extract(ctx, text)
			if err != nil {
				return err
			}
			return PrintResult(cmd, extractionView{res})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "document text file, - for stdin")
	return cmd
}

type extractionView struct {
	r *entity_extractor.ExtractionResult
}

func (v extractionView) Raw() any { return v.r }

func (v extractionView) TableHeaders() []string {
	return []string{"TYPE", "POSITION", "CONFIDENCE", "VALUE"}
}

func (v extractionView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.r.Entities))
	for _, e := range v.r.Entities {
		rows = append(rows, []string{
			string(e.Type),
			strconv.Itoa(e.Position),
			fmt.Sprintf("%.2f", e.Confidence),
			truncate(e.Value, 60),
		})
	}
	return rows
}

func (v extractionView) String() string {
	return FormatTable(v.TableHeaders(), v.TableRows()) +
		fmt.Sprintf("\n%d entities\n", v.r.TotalEntities)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

//Personal.AI order the ending
