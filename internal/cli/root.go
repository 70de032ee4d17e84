// Package cli implements hrctl, a terminal front end over the session, rbac
// and guard packages.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/andressep95/hr-service/pkg/auth"
	"github.com/andressep95/hr-service/pkg/client"
	"github.com/andressep95/hr-service/pkg/logger"
	"github.com/andressep95/hr-service/pkg/rbac"
	"github.com/andressep95/hr-service/pkg/session"
	"github.com/andressep95/hr-service/pkg/storage"
)

const (
	envAPIURL    = "HRCTL_API_URL"
	envStateFile = "HRCTL_STATE_FILE"
	envPassword  = "HRCTL_PASSWORD"
	envLogLevel  = "HRCTL_LOG_LEVEL"
)

// options are the persistent flags.
type options struct {
	apiURL    string
	stateFile string
	as        string
	logLevel  string
}

// app is built once per command run from the persistent flags.
type app struct {
	out    io.Writer
	errOut io.Writer

	registry  *session.Registry
	client    *client.Client
	hooks     map[session.Class]*auth.Hook
	evaluator *rbac.Evaluator
	class     session.Class
}

// terminal reports navigation and notifications on stderr.
type terminal struct{ w io.Writer }

func (t terminal) Navigate(route string) {
	fmt.Fprintf(t.w, "not signed in, run: hrctl login --as %s (%s)\n", classFromRoute(route), route)
}

func (t terminal) Notify(level auth.Level, message string) {
	prefix := "info"
	if level == auth.LevelError {
		prefix = "error"
	}
	fmt.Fprintf(t.w, "%s: %s\n", prefix, message)
}

func (t terminal) Back() {
	fmt.Fprintln(t.w, "returning to the previous menu")
}

func classFromRoute(route string) string {
	dir := filepath.Dir(route)
	return filepath.Base(dir)
}

func newApp(opts *options, out, errOut io.Writer) (*app, error) {
	class, err := session.ParseClass(opts.as)
	if err != nil {
		return nil, err
	}

	l := logger.NewWithWriter(errOut, logger.ParseLevel(opts.logLevel))
	if opts.logLevel == "" {
		l = logger.Discard()
	}

	backend, err := openState(opts.stateFile)
	if err != nil {
		return nil, err
	}

	registry := session.NewRegistry(backend)
	c, err := client.New(client.Config{BaseURL: opts.apiURL, Logger: l}, registry)
	if err != nil {
		return nil, err
	}

	term := terminal{w: errOut}
	evaluator := rbac.NewEvaluator(c, registry.For(session.ClassCompany), l)

	hooks := make(map[session.Class]*auth.Hook, len(session.Classes))
	for _, cl := range session.Classes {
		hookOpts := []auth.Option{auth.WithNavigator(term), auth.WithNotifier(term), auth.WithLogger(l)}
		if cl == session.ClassEmployee {
			hookOpts = append(hookOpts, auth.WithResetOnLogout(evaluator))
		}
		hooks[cl] = auth.New(registry.For(cl), c, hookOpts...)
	}

	return &app{
		out:       out,
		errOut:    errOut,
		registry:  registry,
		client:    c,
		hooks:     hooks,
		evaluator: evaluator,
		class:     class,
	}, nil
}

func (a *app) hook() *auth.Hook {
	return a.hooks[a.class]
}

// loadPermissions prepares the evaluator for the signed-in employee. A
// company session needs no list.
func (a *app) loadPermissions(ctx context.Context) {
	if !a.registry.For(session.ClassEmployee).HasToken(ctx) {
		return
	}

	h := a.hooks[session.ClassEmployee]
	h.Mount(ctx)

	if p := h.Profile(); p != nil {
		if err := a.evaluator.Load(ctx, p.ID); err != nil {
			fmt.Fprintf(a.errOut, "warning: %v\n", err)
		}
	}
}

// openState returns a Redis backend for redis:// locations and a JSON file
// otherwise. A "namespace" query parameter prefixes the Redis keys.
func openState(location string) (storage.Storage, error) {
	if !strings.HasPrefix(location, "redis://") && !strings.HasPrefix(location, "rediss://") {
		return storage.NewFile(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid state location: %w", err)
	}

	q := u.Query()
	namespace := q.Get("namespace")
	if namespace == "" {
		namespace = "hrctl"
	}
	q.Del("namespace")
	u.RawQuery = q.Encode()

	ropts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("invalid state location: %w", err)
	}

	return storage.NewRedis(redis.NewClient(ropts), namespace, 0), nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".hrctl.json"
	}
	return filepath.Join(dir, "hrctl", "state.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewRootCommand builds the hrctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:           "hrctl",
		Short:         "Command line client for the HR service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", envOr(envAPIURL, "http://localhost:8080"), "API base URL ($"+envAPIURL+")")
	flags.StringVar(&opts.stateFile, "state", envOr(envStateFile, defaultStateFile()), "session state file or redis:// URL ($"+envStateFile+")")
	flags.StringVar(&opts.as, "as", string(session.ClassEmployee), "actor class: admin, company or employee")
	flags.StringVar(&opts.logLevel, "log-level", os.Getenv(envLogLevel), "enable client logs at this level ($"+envLogLevel+")")

	current := func() *app { return a }

	root.AddCommand(
		newLoginCommand(current),
		newLogoutCommand(current),
		newWhoamiCommand(current),
		newCanCommand(current),
		newEmployeesCommand(current),
		newRolesCommand(current),
		newProfileCommand(current),
		newPasswordCommand(current),
	)

	return root
}

// Execute runs hrctl with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
