package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/devpath/internal/ui/components"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record today's visit and update the streak",
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
		fmt.Fprintf(out, "🔥 Sequência: %d dia(s)\n", st.Profile.Streak)
		printNotifications(out, e.checkIn)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, streak and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		snap, err := e.svc.Snapshot(ctx, conf.HoursPerWeek)
		if err != nil {
			return err
		}
		st, err := e.svc.State(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printNotifications(out, e.checkIn)
		fmt.Fprintln(out, components.RenderStats(snap, renderWidth))

		if len(st.Profile.XPHistory) > 0 {
			fmt.Fprintln(out, "Histórico de XP")
			for _, p := range st.Profile.XPHistory {
				fmt.Fprintf(out, "  %s  %6d XP\n", p.Date, p.XP)
			}
		}
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Re-estimate the roadmap duration for your weekly hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		est, err := e.svc.Estimate(cmd.Context(), conf.HoursPerWeek)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d semanas (~%.1f meses) estudando %dh por semana\n",
			est.Weeks, est.Months, est.HoursPerWeek)
		return nil
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges <technology...>",
	Short: "Suggest practice projects for a technology",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		tech := strings.Join(args, " ")
		cs, cached, err := e.svc.Challenges(cmd.Context(), tech)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, components.RenderChallenges(tech, cs))
		if cached {
			fmt.Fprintln(out, "(do cache)")
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the roadmap, or all progress with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Reset(cmd.Context(), all); err != nil {
			return err
		}
		if all {
			fmt.Fprintln(cmd.OutOrStdout(), "Roadmap, perfil e cache de desafios apagados.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Roadmap apagado. XP e conquistas foram mantidos.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "also discard XP, achievements and cached challenges")
}
