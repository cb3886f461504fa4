package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/application/simulation"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func NewSimulateCmd() *cobra.Command {
	var (
		doc       documentFlags
		scenarios []string
		all       bool
		keep      bool
		custom    whatif.ScenarioParameters
		mitigate  []string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run what-if scenarios against a document's baseline",
		Long: "Start a simulation session from the document, run the requested scenarios\n" +
			"and print each outcome against the baseline. Named scenarios: " +
			strings.Join(simulation.ScenarioNames(), ", ") + ".",
		Example: "  dprctl simulate -f dpr.txt --all\n" +
			"  dprctl simulate -f dpr.txt --scenario pessimistic --timeline 0.8 --resources 1.2",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, rt := range mitigate {
				custom.MitigatedRiskTypes = append(custom.MitigatedRiskTypes, dpr.RiskType(strings.ToUpper(rt)))
			}
			hasCustom := custom.TimelineMultiplier != 0 || custom.ResourceMultiplier != 0 ||
				custom.ComplexityMultiplier != 0 || custom.AccessibilityMultiplier != 0 ||
				custom.CostMultiplier != 0 || len(custom.MitigatedRiskTypes) > 0
			if !all && len(scenarios) == 0 && !hasCustom {
				return errors.New(errors.ErrCodeValidation, "nothing to run: give --all, --scenario or a custom multiplier")
			}
			for _, name := range scenarios {
				if _, ok := simulation.Scenario(name); !ok {
					return errors.Newf(errors.ErrCodeValidation, "unknown scenario %q", name)
				}
			}

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

			sess, err := backend.StartSimulation(ctx, &simulation.StartRequest{
				Text:       text,
				Structured: doc.structured(),
				Risks:      risks,
			})
			if err != nil {
				return err
			}
			if keep {
				fmt.Fprintf(cmd.ErrOrStderr(), "session %s kept open\n", sess.ID)
			} else {
				defer func() {
					if err := backend.CloseSimulation(ctx, sess.ID); err != nil {
						PrintError(cmd, err)
					}
				}()
			}

			view := simulationView{SessionID: sess.ID}
			if b := sess.Baseline; b != nil {
				view.Baseline = whatif.ScenarioSummary{
					Name:                  whatif.BaselineName,
					CompletionProbability: b.CompletionProbability,
				}
				if b.RiskAnalysis != nil {
					view.Baseline.RiskScore = b.RiskAnalysis.RiskScore
				}
			}

			if all {
				res, err := backend.Comprehensive(ctx, sess.ID)
				if err != nil {
					return err
				}
				view.Baseline = res.Baseline
				view.Results = append(view.Results, res.Scenarios...)
				view.Best, view.Worst = &res.Best, &res.Worst
			}
			for _, name := range scenarios {
				res, err := backend.RunSimulation(ctx, sess.ID, whatif.ScenarioParameters{Name: name})
				if err != nil {
					return err
				}
				view.Results = append(view.Results, *res)
			}
			if hasCustom {
				if custom.Name == "" {
					custom.Name = "custom"
				}
				res, err := backend.RunSimulation(ctx, sess.ID, custom)
				if err != nil {
					return err
				}
				view.Results = append(view.Results, *res)
			}
			return PrintResult(cmd, view)
		},
	}

	doc.register(cmd)
	cmd.Flags().StringSliceVar(&scenarios, "scenario", nil, "named scenario to run (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "run the comprehensive scenario battery")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave the session open (server mode)")
	cmd.Flags().StringVar(&custom.Name, "name", "", "label for the custom scenario")
	cmd.Flags().Float64Var(&custom.TimelineMultiplier, "timeline", 0, "custom timeline multiplier")
	cmd.Flags().Float64Var(&custom.ResourceMultiplier, "resources", 0, "custom resource multiplier")
	cmd.Flags().Float64Var(&custom.ComplexityMultiplier, "complexity", 0, "custom complexity multiplier")
	cmd.Flags().Float64Var(&custom.AccessibilityMultiplier, "access", 0, "custom site accessibility multiplier")
	cmd.Flags().Float64Var(&custom.CostMultiplier, "cost", 0, "custom cost multiplier")
	cmd.Flags().StringSliceVar(&mitigate, "mitigate", nil, "risk type to mitigate in the custom scenario (repeatable)")
	cmd.Flags().Float64Var(&custom.MitigationEffectiveness, "effectiveness", 0, "mitigation effectiveness override, 0 to 1")
	return cmd
}

// simulationView is the combined output of one simulate run.
type simulationView struct {
	SessionID string                    `json:"session_id"`
	Baseline  whatif.ScenarioSummary    `json:"baseline"`
	Results   []whatif.SimulationResult `json:"results"`
	Best      *whatif.ScenarioSummary   `json:"best,omitempty"`
	Worst     *whatif.ScenarioSummary   `json:"worst,omitempty"`
}

func (v simulationView) TableHeaders() []string {
	return []string{"SCENARIO", "PROBABILITY", "DELTA", "RISK", "COST %", "TIME (MO)", "FEASIBILITY"}
}

func (v simulationView) TableRows() [][]string {
	rows := [][]string{{
		v.Baseline.Name,
		fmt.Sprintf("%.1f%%", v.Baseline.CompletionProbability),
		"",
		fmt.Sprintf("%.1f", v.Baseline.RiskScore),
		"", "", "",
	}}
	for _, r := range v.Results {
		rows = append(rows, []string{
			r.Name,
			fmt.Sprintf("%.1f%%", r.CompletionProbability),
			fmt.Sprintf("%+.1f", r.ProbabilityDelta),
			fmt.Sprintf("%.1f", r.RiskScore),
			fmt.Sprintf("%+.1f", r.CostImpactPercent),
			fmt.Sprintf("%+.1f", r.TimeImpactMonths),
			string(r.Feasibility),
		})
	}
	return rows
}

func (v simulationView) String() string {
	var sb strings.Builder
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	if v.Best != nil && v.Worst != nil {
		fmt.Fprintf(&sb, "\nbest: %s (%.1f%%), worst: %s (%.1f%%)\n",
			v.Best.Name, v.Best.CompletionProbability, v.Worst.Name, v.Worst.CompletionProbability)
	}
	return sb.String()
}

//Personal.AI order the ending
