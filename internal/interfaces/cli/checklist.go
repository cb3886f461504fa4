package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
)

func NewChecklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show, validate and replace the gap-analysis checklist",
	}
	cmd.AddCommand(newChecklistShowCmd(), newChecklistValidateCmd(), newChecklistPushCmd())
	return cmd
}

func newChecklistShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			c, err := backend.Checklist(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, checklistView{c})
		},
	}
}

func newChecklistValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <file>",
		Short:       "Validate a checklist file without installing it",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadChecklistFile(args[0])
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("checklist %s is valid: %d sections, %d fields",
				c.Version, len(c.Sections), c.FieldCount()))
			return nil
		},
	}
}

func newChecklistPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Replace the active checklist",
		Long: "Validate the file locally and install it. Against a server the new\n" +
			"checklist applies to every later analysis; in process it lasts for this run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadChecklistFile(args[0])
			if err != nil {
				return err
			}
			backend, ctx, cancel, err := backendFrom(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			installed, err := backend.PutChecklist(ctx, c)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("checklist %s installed", installed.Version))
			return nil
		},
	}
}

type checklistView struct {
	c *checklist.Checklist
}

func (v checklistView) Raw() any { return v.c }

func (v checklistView) TableHeaders() []string {
	return []string{"SECTION", "TYPE", "WEIGHT", "FIELDS", "REQUIRED"}
}

func (v checklistView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.c.Sections))
	for _, s := range v.c.Sections {
		required := 0
		for _, f := range s.Fields {
			if f.Required {
				required++
			}
		}
		rows = append(rows, []string{
			s.Name,
			string(s.SectionType),
			fmt.Sprintf("%.1f", s.Weight),
			fmt.Sprintf("%d", len(s.Fields)),
			fmt.Sprintf("%d", required),
		})
	}
	return rows
}

func (v checklistView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "checklist %s, total weight %.1f\n\n", v.c.Version, v.c.TotalWeight)
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	return sb.String()
}

//Personal.AI order the ending
