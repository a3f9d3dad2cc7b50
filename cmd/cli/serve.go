// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"io"

	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"
	"cv-terminal/internal/metrics"
	cvssh "cv-terminal/internal/ssh"
	"cv-terminal/internal/web"

	"github.com/spf13/cobra"
	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the CV terminal in the browser",
	Long: `Starts an HTTP server with the terminal page at '/', the session websocket at
'/ws', the CV as JSON under '/api', '/healthz' and Prometheus metrics at '/metrics'.

Settings come from CVT_HTTP_ADDR, CVT_SSH_ADDR, CVT_HOST_KEY, CVT_FRAME_INTERVAL
and CVT_MAX_SESSIONS; flags override them. With --ssh the SSH server runs too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			return err
		}
		srv, err := serverSettings(cmd)
		if err != nil {
			return err
		}
		withSSH, _ := cmd.Flags().GetBool("ssh")

		m := metrics.New()
		webServer := web.NewServer(cfg, web.Options{
			FrameInterval: srv.FrameInterval,
			MaxSessions:   srv.MaxSessions,
			Metrics:       m,
		})

		var sshServer *cvssh.Server
		if withSSH {
			sshServer, err = newSSHServer(cmd, cfg, srv, m)
			if err != nil {
				return err
			}
		}

		statusColor.Printf("Serving CV on http://%s\n", displayAddr(srv.HTTPAddr))
		return runUntilSignal(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) error {
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return webServer.ListenAndServe(ctx, srv.HTTPAddr) })
			if sshServer != nil {
				g.Go(func() error { return sshServer.ListenAndServe(ctx, srv.SSHAddr) })
			}
			return g.Wait()
		})
	},
}

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the CV terminal over SSH",
	Long: `Starts an SSH server. 'ssh -p 2222 host' opens the animated terminal and
'ssh -p 2222 host about' prints a section and exits.

The host key is read from CVT_HOST_KEY (or --host-key) and generated on first start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCV()
		if err != nil {
			return err
		}
		srv, err := serverSettings(cmd)
		if err != nil {
			return err
		}
		sshServer, err := newSSHServer(cmd, cfg, srv, metrics.New())
		if err != nil {
			return err
		}
		return runUntilSignal(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) error {
			return sshServer.ListenAndServe(ctx, srv.SSHAddr)
		})
	},
}

func init() {
	serveCmd.Flags().String("http-addr", "", "HTTP listen address (default $CVT_HTTP_ADDR or :8080)")
	serveCmd.Flags().Bool("ssh", false, "also run the SSH server")
	addServerFlags(serveCmd)
	addServerFlags(sshCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("ssh-addr", "", "SSH listen address (default $CVT_SSH_ADDR or :2222)")
	cmd.Flags().String("host-key", "", "SSH host key file, generated if missing (default $CVT_HOST_KEY)")
	cmd.Flags().Duration("frame-interval", 0, "delay between typed characters (default $CVT_FRAME_INTERVAL or 16ms)")
	cmd.Flags().Int("max-sessions", 0, "concurrent sessions per server (default $CVT_MAX_SESSIONS or 64)")
}

// serverSettings reads the environment and applies any flags the user set.
func serverSettings(cmd *cobra.Command) (config.Server, error) {
	srv, err := config.LoadServer()
	if err != nil {
		return config.Server{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("http-addr") {
		srv.HTTPAddr, _ = flags.GetString("http-addr")
	}
	if flags.Changed("ssh-addr") {
		srv.SSHAddr, _ = flags.GetString("ssh-addr")
	}
	if flags.Changed("host-key") {
		srv.HostKeyPath, _ = flags.GetString("host-key")
	}
	if flags.Changed("frame-interval") {
		srv.FrameInterval, _ = flags.GetDuration("frame-interval")
		if srv.FrameInterval <= 0 {
			return config.Server{}, fmt.Errorf("--frame-interval must be positive")
		}
	}
	if flags.Changed("max-sessions") {
		srv.MaxSessions, _ = flags.GetInt("max-sessions")
	}
	return srv, nil
}

// newSSHServer loads or creates the host key and prints how clients can trust it.
func newSSHServer(cmd *cobra.Command, cfg *config.CV, srv config.Server, m *metrics.Metrics) (*cvssh.Server, error) {
	keyPath, err := config.ResolvePath(srv.HostKeyPath)
	if err != nil {
		return nil, err
	}
	signer, created, err := cvssh.LoadOrCreateHostKey(keyPath)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("Generated SSH host key", "path", keyPath)
		successColor.Printf("Generated SSH host key at %s\n", keyPath)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Host key fingerprint: %s\n", identifierColor.Sprint(gossh.FingerprintSHA256(signer.PublicKey())))
	fmt.Fprintf(out, "known_hosts entry:    %s\n", dimColor.Sprint(cvssh.KnownHostsLine(displayAddr(srv.SSHAddr), signer.PublicKey())))
	printClientAlias(out, srv.SSHAddr)

	return cvssh.NewServer(cfg, signer, cvssh.Options{
		FrameInterval: srv.FrameInterval,
		MaxSessions:   srv.MaxSessions,
		Metrics:       m,
	}), nil
}

// printClientAlias names an existing ~/.ssh/config alias for addr, or prints a
// stanza the user can add.
func printClientAlias(out io.Writer, addr string) {
	if path, err := cvssh.DefaultClientConfigPath(); err == nil {
		alias, err := cvssh.FindClientAlias(path, addr)
		if err != nil {
			logger.Warn("Could not read ssh client config", "path", path, "error", err)
		} else if alias != "" {
			fmt.Fprintf(out, "Connect with:         %s\n", identifierColor.Sprint("ssh "+alias))
			return
		}
	}
	if stanza, err := cvssh.ClientConfig("cv", addr); err == nil {
		fmt.Fprintf(out, "~/.ssh/config entry:\n%s", dimColor.Sprint(stanza))
	} else {
		logger.Debug("No client config for listen address", "addr", addr, "error", err)
	}
}

// displayAddr fills in localhost for addresses like ":8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
