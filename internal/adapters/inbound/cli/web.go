package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/codejanitor/janitor/internal/adapters/inbound/web"
)

func newWebCmd(g *globalOptions) *cobra.Command {
	var (
		host        string
		port        int
		projectPath string
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the HTTP API",
		Long: "Start an HTTP server with POST /api/analyze, POST /api/refactor, GET /api/history, " +
			"a websocket log stream on /ws/logs and Prometheus metrics on /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port <= 0 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}
			if !g.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			s := web.NewServer(web.Options{
				ProjectPath: projectPath,
				ConfigFile:  g.configFile,
				Version:     version,
				Logger:      g.logger,
				Provider:    g.provider,
			})
			addr := net.JoinHostPort(host, strconv.Itoa(port))
			fmt.Fprintf(cmd.OutOrStdout(), "janitor web listening on http://%s\n", addr)
			return s.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host to bind to")
	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on")
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project whose configuration and history are used")

	return cmd
}
