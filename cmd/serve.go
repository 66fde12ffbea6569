package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/devpath/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		scfg := server.DefaultConfig()
		scfg.Addr = fmt.Sprintf(":%d", conf.Port)
		scfg.StaticDir = conf.StaticDir
		scfg.HoursPerWeek = conf.HoursPerWeek

		return server.New(e.svc, scfg, logger).ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Int("port", 3001, "port to listen on (overrides PORT)")
	serveCmd.Flags().String("static", "", "directory of static files served at /")
}
