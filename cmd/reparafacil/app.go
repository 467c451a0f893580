package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/client/datastore"
	"github.com/grupo8/reparafacil/internal/client/remote"
	"github.com/grupo8/reparafacil/internal/client/repository"
	"github.com/grupo8/reparafacil/internal/client/viewmodel"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/pkg/config"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitSession = 3
)

var errUsage = errors.New("usage")

// app wires the client layers and renders their state on out.
type app struct {
	out      io.Writer
	auth     *repository.AuthRepository
	services *repository.ServicesRepository
	authVM   *viewmodel.AuthViewModel
	log      zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, prefs ports.PreferenceStore, out io.Writer, log zerolog.Logger) (*app, error) {
	api, err := remote.New(remote.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, log)
	if err != nil {
		return nil, err
	}
	store := datastore.NewSessionStore(prefs, log)
	auth := repository.NewAuthRepository(api, store, log)
	return &app{
		out:      out,
		auth:     auth,
		services: repository.NewServicesRepository(api, store, log),
		authVM:   viewmodel.NewAuthViewModel(ctx, auth, log),
		log:      log,
	}, nil
}

type command struct {
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {"register -name N -email E -password P -phone T [-role cliente|tecnico]", (*app).register},
	"login":    {"login -email E -password P", (*app).login},
	"logout":   {"logout", (*app).logout},
	"whoami":   {"whoami", (*app).whoami},
	"profile":  {"profile", (*app).profile},
	"avatar":   {"avatar -uri URI", (*app).avatar},
	"services": {"services list|create|get|advance ...", (*app).servicesCmd},
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return exitUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.out, "unknown command %q\n", args[0])
		a.usage()
		return exitUsage
	}

	err := cmd.run(a, ctx, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errReported):
		return exitFailed
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(a.out, "usage: reparafacil %s\n", cmd.usage)
		return exitUsage
	case errors.Is(err, domain.ErrNoActiveSession), repository.IsUnauthorized(err):
		fmt.Fprintln(a.out, "not logged in: run reparafacil login")
		return exitSession
	default:
		fmt.Fprintln(a.out, "error:", domain.UserMessage(err))
		return exitFailed
	}
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "usage:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  reparafacil %s\n", commands[name].usage)
	}
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// stateError turns a failed RequestState into an error for the exit code,
// after printing its message and field errors.
func stateError[T any](a *app, st viewmodel.RequestState[T]) error {
	if st.Status != viewmodel.StatusError {
		return nil
	}
	fmt.Fprintln(a.out, "error:", st.Message)
	fields := make([]string, 0, len(st.Fields))
	for f := range st.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", f, st.Fields[f])
	}
	return errReported
}

// errReported marks an error already printed by the command.
var errReported = errors.New("reported")

func printUser(w io.Writer, u *domain.User) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", u.ID)
	fmt.Fprintf(tw, "name\t%s\n", u.Name)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "role\t%s\n", u.Role)
	if u.Phone != "" {
		fmt.Fprintf(tw, "phone\t%s\n", u.Phone)
	}
	_ = tw.Flush()
}

func printServices(w io.Writer, items []domain.ServiceRequest) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no service requests")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tREQUESTED\tADDRESS")
	for _, s := range items {
		requested := "-"
		if !s.RequestedAt.IsZero() {
			requested = s.RequestedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Type, s.Status.Wire(), requested, s.Address)
	}
	_ = tw.Flush()
}

func printService(w io.Writer, s *domain.ServiceRequest) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", s.ID)
	fmt.Fprintf(tw, "type\t%s\n", s.Type)
	fmt.Fprintf(tw, "description\t%s\n", s.Description)
	fmt.Fprintf(tw, "status\t%s\n", s.Status.Wire())
	fmt.Fprintf(tw, "address\t%s\n", s.Address)
	if s.TechnicianID != nil {
		fmt.Fprintf(tw, "technician\t%d\n", *s.TechnicianID)
	}
	if s.CompletedAt != nil {
		fmt.Fprintf(tw, "completed\t%s\n", s.CompletedAt.Format("2006-01-02 15:04"))
	}
	if s.Warranty {
		fmt.Fprintln(tw, "warranty\tyes")
	}
	_ = tw.Flush()
}
