package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/instant-voices/pkg/voicecache"
	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

type globalFlags struct {
	server   string
	token    string
	owner    string
	snapshot string
	timeout  time.Duration
	retries  uint64
	verbose  bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "voicectl",
		Short:         "Manage custom voice recordings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.server, "server", envOr("VOICES_SERVER", "http://localhost:8080"), "voice server base URL")
	pf.StringVar(&g.token, "token", os.Getenv("VOICES_TOKEN"), "guest session token")
	pf.StringVar(&g.owner, "owner", os.Getenv("VOICES_OWNER"), "owner id sent with requests")
	pf.StringVar(&g.snapshot, "snapshot", defaultSnapshotPath(), "offline snapshot file")
	pf.DurationVar(&g.timeout, "timeout", 30*time.Second, "request timeout")
	pf.Uint64Var(&g.retries, "retries", 2, "read retries while the server is unavailable")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newGuestCmd(g),
		newListCmd(g),
		newUploadCmd(g),
		newCreateCmd(g),
		newDeleteCmd(g),
		newSpeakPlanCmd(g),
	)
	return root
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	var w io.Writer = io.Discard
	if g.verbose {
		w = cmd.ErrOrStderr()
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func (g *globalFlags) client(cmd *cobra.Command) *voiceclient.Client {
	return voiceclient.New(g.server,
		voiceclient.WithToken(g.token),
		voiceclient.WithLogger(g.logger(cmd)),
		voiceclient.WithReadRetries(g.retries),
		voiceclient.WithHTTPClient(&http.Client{Timeout: g.timeout}),
	)
}

// cache returns a loaded cache. Snapshot failures are printed, not returned.
func (g *globalFlags) cache(cmd *cobra.Command) (*voicecache.Cache, error) {
	var snap voicecache.Snapshotter
	if g.snapshot != "" {
		snap = voicecache.NewFileSnapshot(g.snapshot, 0)
	}

	c := voicecache.New(g.client(cmd), snap, voicecache.Options{
		OwnerID: g.owner,
		Logger:  g.logger(cmd),
		OnSnapshotError: func(err error) {
			cmd.PrintErrf("warning: offline snapshot not saved: %v\n", err)
		},
	})
	if err := c.Load(cmd.Context()); err != nil {
		return nil, err
	}
	if c.State() == voicecache.StateDegradedFromFallback {
		cmd.PrintErrf("warning: server unreachable, showing offline snapshot (%v)\n", c.LoadErr())
	}
	return c, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSnapshotPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "instant-voices", "voices.json")
}
