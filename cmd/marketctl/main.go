// Command marketctl drives the marketplace API from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/config"
	"github.com/georgemunganga/localmarket/internal/session"
	"github.com/georgemunganga/localmarket/internal/ui"
)

var errNotLoggedIn = errors.New("not logged in, run 'marketctl login' first")

// app holds what every command shares. It is built once flags are parsed.
type app struct {
	apiURL      string
	sessionFile string
	timeout     time.Duration
	verbose     bool

	in  io.Reader
	out io.Writer

	client   *client.Client
	store    *session.FileStore
	sessions *session.Manager
}

func newRootCmd(a *app, defaults *config.CLIConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Command-line client for the local marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	sessionFile := defaults.SessionFile
	if sessionFile == "" {
		sessionFile = session.DefaultFilePath()
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", defaults.APIURL, "marketplace API base URL (env MARKETPLACE_API_URL)")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", sessionFile, "where the signed-in session is kept")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", defaults.Timeout, "per-request timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log API requests to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAccountCmd(a),
		newVendorCmd(a),
		newPayCmd(a),
		newProductsCmd(a),
	)
	return root
}

func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(a.apiURL,
		client.WithTimeout(a.timeout),
		client.WithLogger(logger),
		client.WithUserAgent("marketctl/1.0"),
	)
	if err != nil {
		return err
	}
	a.client = c
	a.store = session.NewFileStore(a.sessionFile)
	a.sessions = session.NewManager(a.store, c.Auth, 0)
	return nil
}

// signedIn loads the saved session and attaches its token to ctx.
func (a *app) signedIn(ctx context.Context) (context.Context, *session.Session, error) {
	saved, err := a.store.Get(ctx, "")
	if errors.Is(err, session.ErrNotFound) {
		return ctx, nil, errNotLoggedIn
	}
	if err != nil {
		return ctx, nil, err
	}
	s, err := a.sessions.Get(ctx, saved.ID)
	if errors.Is(err, session.ErrNotFound) {
		return ctx, nil, errNotLoggedIn
	}
	if err != nil {
		return ctx, nil, err
	}
	return client.ContextWithToken(ctx, s.Token), s, nil
}

// describe turns an error into the line printed for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrTransport):
		return ui.MsgUnreachable
	case errors.Is(err, client.ErrValidation):
		return err.Error()
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defaults, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	a := &app{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(a, defaults).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}
