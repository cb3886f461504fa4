package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func NewSchemesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "Inspect the scheme registry and verify scheme references",
	}
	cmd.AddCommand(newSchemesListCmd(), newSchemesMatchCmd())
	return cmd
}

func newSchemesListCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered government schemes",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			schemes, err := backend.Schemes(ctx, active)
			if err != nil {
				return err
			}
			return PrintResult(cmd, schemeListView(schemes))
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "only schemes accepting applications")
	return cmd
}

type schemeListView []scheme.GovernmentScheme

func (v schemeListView) Raw() any { return []scheme.GovernmentScheme(v) }

func (v schemeListView) TableHeaders() []string {
	return []string{"CODE", "STATUS", "FUNDING (CR)", "MINISTRY", "NAME"}
}

func (v schemeListView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, s := range v {
		rows = append(rows, []string{
			s.Code,
			string(s.Status),
			fmt.Sprintf("%s-%s", crore(s.MinFunding), crore(s.MaxFunding)),
			s.Ministry,
			s.Name,
		})
	}
	return rows
}

func crore(rupees float64) string {
	return fmt.Sprintf("%.0f", rupees/dpr.Crore)
}

func newSchemesMatchCmd() *cobra.Command {
	var (
		mentions []string
		keywords []string
		profile  scheme_matcher.ProjectProfile
		costCr   float64
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Verify scheme mentions and find missing funding opportunities",
		Example: "  dprctl schemes match --mention PMGSY --mention 'Smart City' \\\n" +
			"      --sector roads --state Odisha --cost-crore 45",
		RunE: func(cmd *cobra.Command, args []string) error {
			mentions = append(mentions, args...)
			if len(mentions) == 0 && profile.Sector == "" && profile.State == "" {
				return errors.New(errors.ErrCodeValidation, "give at least one --mention or a project --sector/--state")
			}
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			profile.EstimatedCost = costCr * dpr.Crore
			profile.Keywords = keywords
			res, err := backend.MatchSchemes(ctx, mentions, profile)
			if err != nil {
				return err
			}
			return PrintResult(cmd, schemeGapView{res})
		},
	}

	cmd.Flags().StringArrayVar(&mentions, "mention", nil, "scheme name or code as written in the document (repeatable)")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "project keyword (repeatable)")
	cmd.Flags().StringVar(&profile.Sector, "sector", "", "project sector")
	cmd.Flags().StringVar(&profile.State, "state", "", "project state")
	cmd.Flags().StringVar(&profile.Description, "description", "", "short project description")
	cmd.Flags().Float64Var(&costCr, "cost-crore", 0, "estimated cost in crore")
	return cmd
}

type schemeGapView struct {
	r *scheme_matcher.SchemeGapAnalysis
}

func (v schemeGapView) Raw() any { return v.r }

func (v schemeGapView) TableHeaders() []string {
	return []string{"KIND", "MENTION", "SCHEME", "DETAIL"}
}

func (v schemeGapView) TableRows() [][]string {
	var rows [][]string
	for _, s := range v.r.VerifiedSchemes {
		rows = append(rows, []string{"verified", s.Mention, s.Code, fmt.Sprintf("%s %.2f", s.MatchType, s.Similarity)})
	}
	for _, s := range v.r.IncorrectReferences {
		rows = append(rows, []string{"incorrect", s.Mention, s.CorrectName, s.Reason})
	}
	for _, s := range v.r.Suggestions {
		rows = append(rows, []string{"suggestion", s.Mention, s.Code, fmt.Sprintf("score %.2f", s.Score)})
	}
	for _, m := range v.r.UnverifiedMentions {
		rows = append(rows, []string{"unverified", m, "", ""})
	}
	for _, o := range v.r.MissingOpportunities {
		rows = append(rows, []string{"opportunity", "", o.Code, fmt.Sprintf("relevance %.2f, %s", o.Relevance, o.EstimatedTime)})
	}
	return rows
}

func (v schemeGapView) String() string {
	var sb strings.Builder
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	fmt.Fprintf(&sb, "\naccuracy %.2f, coverage %.2f, completeness %.1f, severity %s\n",
		v.r.Accuracy, v.r.Coverage, v.r.CompletenessScore, v.r.Severity)
	for _, rec := range v.r.Recommendations {
		fmt.Fprintf(&sb, "  - %s\n", rec.Title)
	}
	return sb.String()
}

//Personal.AI order the ending
