package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/AdamBeresnev/swiss-pairings/internal/config"
	"github.com/AdamBeresnev/swiss-pairings/internal/db"
	"github.com/AdamBeresnev/swiss-pairings/internal/service"
	"github.com/AdamBeresnev/swiss-pairings/internal/store"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
)

const usage = `usage: swiss <command> [flags]

commands:
  new -name NAME [player ...]          create a tournament
  register [-t ID] player ...          register players
  standings [-t ID]                    show standings
  pairings [-t ID]                     propose the next round
  report [-t ID] -p1 ID -p2 ID [-winner ID]
                                       record a played match, no winner is a draw
  bye [-t ID] -p ID                    record a bye
  reset -yes                           delete every tournament

Commands without -t use the most recently created tournament.`

var errUsage = errors.New("invalid usage")

type app struct {
	tournaments *service.TournamentService
	pairings    *service.PairingService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := runMain(logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runMain(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.DBDriver, cfg.MigrationsDir); err != nil {
		return err
	}

	tournamentStore := store.NewTournamentStore(database)
	a := &app{
		tournaments: service.NewTournamentService(database, tournamentStore),
		pairings:    service.NewPairingService(tournamentStore, tournamentStore, logger),
	}
	return a.run(context.Background(), os.Args[1:], os.Stdout)
}

func (a *app) run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "new":
		return a.newTournament(ctx, args, out)
	case "register":
		return a.register(ctx, args, out)
	case "standings":
		return a.standings(ctx, args, out)
	case "pairings":
		return a.nextPairings(ctx, args, out)
	case "report":
		return a.report(ctx, args, out)
	case "bye":
		return a.bye(ctx, args, out)
	case "reset":
		return a.reset(ctx, args, out)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// resolve returns the tournament named by -t or the latest one.
func (a *app) resolve(ctx context.Context, id string) (*swiss.Tournament, error) {
	if id == "" {
		return a.tournaments.CurrentTournament(ctx)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid tournament id %q: %w", id, err)
	}
	return a.tournaments.GetTournament(ctx, parsed)
}

func (a *app) newTournament(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("new")
	name := fs.String("name", "", "tournament name")
	if err := parse(fs, args); err != nil {
		return err
	}

	id, err := a.tournaments.CreateTournament(ctx, *name, fs.Args())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func (a *app) register(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("register")
	tid := fs.String("t", "", "tournament id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: register needs at least one player name", errUsage)
	}

	t, err := a.resolve(ctx, *tid)
	if err != nil {
		return err
	}
	players, err := a.tournaments.RegisterPlayers(ctx, t.ID, fs.Args())
	if err != nil {
		return err
	}
	for _, p := range players {
		fmt.Fprintf(out, "%d\t%s\n", p.ID, p.Name)
	}
	return nil
}

func (a *app) standings(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("standings")
	tid := fs.String("t", "", "tournament id")
	if err := parse(fs, args); err != nil {
		return err
	}

	t, err := a.resolve(ctx, *tid)
	if err != nil {
		return err
	}
	rows, err := a.pairings.ComputeStandings(ctx, t.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderStandings(t.Name, rows))
	return nil
}

func (a *app) nextPairings(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("pairings")
	tid := fs.String("t", "", "tournament id")
	if err := parse(fs, args); err != nil {
		return err
	}

	t, err := a.resolve(ctx, *tid)
	if err != nil {
		return err
	}
	pairings, err := a.pairings.GeneratePairings(ctx, t.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderPairings(t.Name, pairings))
	return nil
}

// optionalID is a flag.Value for player ids that may be left unset.
type optionalID struct {
	v *int64
}

func (o *optionalID) String() string {
	if o.v == nil {
		return ""
	}
	return fmt.Sprint(*o.v)
}

func (o *optionalID) Set(s string) error {
	var id int64
	if _, err := fmt.Sscan(strings.TrimSpace(s), &id); err != nil {
		return fmt.Errorf("invalid player id %q", s)
	}
	o.v = &id
	return nil
}

func (a *app) report(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("report")
	tid := fs.String("t", "", "tournament id")
	var one, two, winner optionalID
	fs.Var(&one, "p1", "player one id")
	fs.Var(&two, "p2", "player two id")
	fs.Var(&winner, "winner", "winner id, omit for a draw")
	if err := parse(fs, args); err != nil {
		return err
	}
	if one.v == nil || two.v == nil {
		return fmt.Errorf("%w: report needs -p1 and -p2", errUsage)
	}

	return a.record(ctx, *tid, service.MatchReport{PlayerOne: one.v, PlayerTwo: two.v, Winner: winner.v}, out)
}

func (a *app) bye(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("bye")
	tid := fs.String("t", "", "tournament id")
	var player optionalID
	fs.Var(&player, "p", "player id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if player.v == nil {
		return fmt.Errorf("%w: bye needs -p", errUsage)
	}

	return a.record(ctx, *tid, service.MatchReport{PlayerOne: player.v}, out)
}

func (a *app) record(ctx context.Context, tid string, report service.MatchReport, out io.Writer) error {
	t, err := a.resolve(ctx, tid)
	if err != nil {
		return err
	}
	m, err := a.pairings.ReportMatch(ctx, t.ID, report)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, describeMatch(m))
	return nil
}

func (a *app) reset(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("reset")
	yes := fs.Bool("yes", false, "confirm")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: reset needs -yes", errUsage)
	}

	count, err := a.tournaments.CountAllPlayers(ctx)
	if err != nil {
		return err
	}
	if err := a.tournaments.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %d players\n", count)
	return nil
}
