package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devpath/internal/ui/components"
)

const renderWidth = 60

var generateCmd = &cobra.Command{
	Use:   "generate [goal...]",
	Short: "Generate a new roadmap for a career goal",
	Long: `Generate a new roadmap for a career goal. Without arguments an
interactive prompt asks for the goal. The new roadmap replaces the current one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runInteractive(cmd, true)
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		printNotifications(out, e.checkIn)

		fmt.Fprintln(out, "Gerando roadmap...")
		r, notes, err := e.svc.GenerateRoadmap(cmd.Context(), strings.Join(args, " "))
		if r == nil {
			return err
		}
		fmt.Fprintln(out, components.RenderRoadmap(r, components.NoCursor, renderWidth))
		printNotifications(out, notes)
		return err
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.svc.State(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printNotifications(out, e.checkIn)
		fmt.Fprintln(out, components.RenderRoadmap(st.Roadmap, components.NoCursor, renderWidth))
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <stage> <item>",
	Short: "Mark an item as completed, or undo it",
	Long:  "Toggle the completion of one item. Stage and item numbers start at 1, as shown by 'devpath show'.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parsePosition("stage", args[0])
		if err != nil {
			return err
		}
		item, err := parsePosition("item", args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		printNotifications(out, e.checkIn)

		notes, err := e.svc.Toggle(cmd.Context(), stage-1, item-1)
		if err != nil && notes == nil {
			return err
		}

		st, serr := e.svc.State(cmd.Context())
		if serr != nil {
			return serr
		}
		it := st.Roadmap.Stages[stage-1].Items[item-1]
		status := "pendente"
		if it.Completed {
			status = "concluído"
		}
		fmt.Fprintf(out, "%s: %s\n", it.Name, status)
		fmt.Fprintln(out, components.NewProgressBar("Progresso", st.Roadmap.Percentage(), renderWidth).View())
		printNotifications(out, notes)
		return err
	},
}

func parsePosition(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be a number from 1", name, arg)
	}
	return n, nil
}
