// Command mountsim assembles a unit from a MegaMek .mtf file, runs it through
// a number of game rounds and reports the state of every mount.
//
//	mountsim [-config dir] [-rounds n] [-mode idx=Name] [-dump idx] [-serve] unit.mtf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/config"
	"github.com/JustinWhittecar/mekmount/internal/db"
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/handlers"
	"github.com/JustinWhittecar/mekmount/internal/ingestion"
	"github.com/JustinWhittecar/mekmount/internal/lifecycle"
	"github.com/JustinWhittecar/mekmount/internal/logging"
	"github.com/JustinWhittecar/mekmount/internal/mount"
	"github.com/JustinWhittecar/mekmount/internal/unit"
)

type modeRequest struct {
	mount mount.ID
	mode  string
}

type options struct {
	configDir string
	mtfPath   string
	rounds    int
	serve     bool
	modes     []modeRequest
	dumps     []mount.ID
}

func parseModeRequest(s string) (modeRequest, error) {
	idx, name, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return modeRequest{}, fmt.Errorf("mode %q: want index=Name", s)
	}
	id, err := strconv.Atoi(idx)
	if err != nil {
		return modeRequest{}, fmt.Errorf("mode %q: %w", s, err)
	}
	return modeRequest{mount: mount.ID(id), mode: name}, nil
}

func main() {
	var opts options
	flag.StringVar(&opts.configDir, "config", ".", "Directory containing mekmount.json")
	flag.IntVar(&opts.rounds, "rounds", 3, "Number of rounds to run")
	flag.BoolVar(&opts.serve, "serve", false, "Keep serving /metrics and the inspection API until interrupted")
	flag.Func("mode", "Request a mode before the first round, as index=Name (repeatable)", func(s string) error {
		req, err := parseModeRequest(s)
		if err != nil {
			return err
		}
		opts.modes = append(opts.modes, req)
		return nil
	})
	flag.Func("dump", "Start dumping the ammo bin at this index (repeatable)", func(s string) error {
		id, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		opts.dumps = append(opts.dumps, mount.ID(id))
		return nil
	})
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mountsim [flags] unit.mtf")
		flag.PrintDefaults()
		os.Exit(2)
	}
	opts.mtfPath = flag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mountsim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	settings, err := config.Load(opts.configDir)
	if err != nil {
		return err
	}
	log := logging.New(settings.LogLevel, nil)

	catalog := equipment.Default()
	if settings.CatalogPath != "" {
		if catalog, err = equipment.LoadFile(settings.CatalogPath); err != nil {
			return err
		}
	}

	data, err := ingestion.ParseMTF(opts.mtfPath)
	if err != nil {
		return err
	}
	loadout, err := ingestion.Assemble(data, catalog, settings.Rules, logging.Component(log, "ingestion"))
	if err != nil {
		return err
	}
	u := loadout.Unit

	for _, req := range opts.modes {
		if !u.SetModeByName(req.mount, req.mode) {
			return fmt.Errorf("mount %d has no mode %q", req.mount, req.mode)
		}
	}
	for _, id := range opts.dumps {
		if m := u.Mount(id); m == nil || !m.SetPendingDump(true) {
			return fmt.Errorf("mount %d is not an ammo bin", id)
		}
	}

	board := handlers.NewBoard()
	board.Publish(u, 0)

	var metrics *lifecycle.Metrics
	var srv *http.Server
	if settings.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		if metrics, err = lifecycle.NewMetrics(reg); err != nil {
			return err
		}
		srv = startServer(settings.Metrics.Addr, reg, board, logging.Component(log, "http"))
		defer shutdown(srv, log)
	}

	sched := lifecycle.NewScheduler(metrics, logging.Component(log, "lifecycle"))
	sched.Register(u)
	for range opts.rounds {
		if ctx.Err() != nil {
			break
		}
		if err := sched.RunRound(); err != nil {
			return err
		}
		board.Publish(u, sched.Round())
	}

	printStatus(out, u, sched.Round(), loadout.Warnings)

	store, closeStore, err := db.Open(ctx, settings.Snapshot)
	if err != nil {
		return err
	}
	defer closeStore()
	if store != nil {
		if err := store.SaveUnit(ctx, u.Snapshot()); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		log.Info().Str("unit", u.Name()).Stringer("id", u.ID()).Str("backend", settings.Snapshot.Backend).Msg("snapshot saved")
	}

	if opts.serve && srv != nil {
		log.Info().Str("addr", settings.Metrics.Addr).Msg("serving until interrupted")
		<-ctx.Done()
	}
	return nil
}

func startServer(addr string, reg *prometheus.Registry, board *handlers.Board, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	(&handlers.MountsHandler{Board: board}).Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()
	return srv
}

func shutdown(srv *http.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}

func printStatus(w io.Writer, u *unit.Unit, round int, warnings []string) {
	fmt.Fprintf(w, "%s after round %d (weapon heat %d)\n\n", u.Name(), round, u.WeaponHeat())
	fmt.Fprintf(w, "  %3s  %-2s  %-28s %-6s %-14s %5s %4s %5s  %s\n", "#", "LC", "Equipment", "Kind", "Mode", "Shots", "Heat", "Expl", "State")
	for _, st := range u.Status() {
		mode := st.Mode
		if st.PendingMode != "" {
			mode += ">" + st.PendingMode
		}
		fmt.Fprintf(w, "  %3d  %-2s  %-28s %-6s %-14s %5d %4d %5d  %s\n",
			st.ID, ingestion.LocationAbbrev(st.Location), st.Name, st.Kind, mode,
			st.ShotsLeft, st.Heat, st.Explosion, stateLabel(st))
	}
	if len(warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, msg := range warnings {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}
}

func stateLabel(st unit.MountStatus) string {
	var parts []string
	switch {
	case !st.Resolved:
		parts = append(parts, "unresolved")
	case !st.Operable:
		parts = append(parts, "inoperable")
	case st.Crippled:
		parts = append(parts, "crippled")
	}
	if st.Jammed {
		parts = append(parts, "jammed")
	}
	if st.CanFire {
		parts = append(parts, "ready")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
