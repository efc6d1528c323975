package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/antbot-go/internal/adapters/cli"
	"github.com/andrescamacho/antbot-go/internal/adapters/grpc"
	"github.com/andrescamacho/antbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/antbot-go/internal/adapters/sim"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Stop any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("antbot soak daemon")
	fmt.Println("==================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the existing daemon", err)
		}
		fmt.Println("Force mode enabled - stopping existing daemon...")
		if killErr := pf.KillExisting(cfg.Daemon.ShutdownTimeout); killErr != nil {
			log.Fatalf("Failed to stop existing daemon: %v", killErr)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after stopping existing daemon: %v", err)
		}
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	rt, err := cli.NewRuntime(cfg, "daemon", "")
	if err != nil {
		return err
	}
	defer rt.Close()
	fmt.Printf("Engine ready, session %s\n", rt.SessionID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = rt.Context(ctx)
	logger := common.LoggerFromContext(ctx)

	if err := rt.StartSession(ctx, map[string]interface{}{
		"seed":    cfg.Simulation.Seed,
		"matches": cfg.Daemon.Matches,
	}); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	servers, err := startServers(ctx, cfg, rt.Metrics)
	if err != nil {
		return err
	}

	// A failing server cancels servers.ctx, which ends the match loop too
	matchErr := playMatches(servers.ctx, rt, cfg)

	stop()
	if err := servers.shutdown(cfg.Daemon.ShutdownTimeout); err != nil {
		logger.Log(common.LevelError, fmt.Sprintf("[Daemon] Server stopped with error: %v", err), nil)
		return err
	}
	if matchErr != nil && !errors.Is(matchErr, context.Canceled) {
		return matchErr
	}
	fmt.Println("Daemon stopped")
	return nil
}

// daemonServers runs the metrics and health servers for one daemon run
type daemonServers struct {
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	health *grpc.HealthServer
}

// startServers starts the metrics server (when collectors is non-nil) and the
// gRPC health service. On error every server already started has stopped.
func startServers(ctx context.Context, cfg *config.Config, collectors *metrics.Collectors) (*daemonServers, error) {
	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	s := &daemonServers{group: group, ctx: groupCtx, cancel: cancel}

	if collectors != nil {
		server, err := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return nil, s.abort(err)
		}
		collectors.Engine.Start(groupCtx, cfg.Metrics.PollInterval)
		group.Go(func() error { return server.Run(groupCtx) })
		fmt.Printf("Metrics on http://%s%s\n", server.Addr(), cfg.Metrics.Path)
	}

	health, err := grpc.NewHealthServer(cfg.Daemon.HealthAddress)
	if err != nil {
		return nil, s.abort(err)
	}
	s.health = health
	group.Go(health.Serve)
	health.SetServing(true)
	fmt.Printf("Health service on %s\n", health.Addr())

	return s, nil
}

// abort stops whatever already runs and returns err
func (s *daemonServers) abort(err error) error {
	s.cancel()
	_ = s.group.Wait()
	return err
}

// shutdown reports NOT_SERVING, stops every server and waits for them
func (s *daemonServers) shutdown(timeout time.Duration) error {
	s.health.SetServing(false)
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.health.Stop(shutdownCtx)

	return s.group.Wait()
}

// playMatches runs simulated matches back to back until the configured count
// is reached or ctx is cancelled. Each match gets its own seed and a fresh engine state.
func playMatches(ctx context.Context, rt *cli.Runtime, cfg *config.Config) error {
	logger := common.LoggerFromContext(ctx)
	limiter := rate.NewLimiter(rate.Limit(cfg.Daemon.TurnRate), 1)

	for i := 0; cfg.Daemon.Matches == 0 || i < cfg.Daemon.Matches; i++ {
		arenaCfg := cli.ArenaConfigFrom(cfg.Simulation)
		arenaCfg.Seed += int64(i)

		arena, err := sim.GenerateArena(arenaCfg)
		if err != nil {
			return err
		}
		if err := rt.Reset(ctx); err != nil {
			return err
		}

		started := time.Now()
		result, err := sim.PlayMatch(ctx, rt.Engine, arena, sim.WithLimiter(limiter))
		if err != nil {
			return err
		}

		logger.Log(common.LevelInfo, fmt.Sprintf("[Daemon] Match %d finished: %d calories in %d turns", i+1, result.Calories, result.Turns), map[string]interface{}{
			"match":      i + 1,
			"seed":       arenaCfg.Seed,
			"calories":   result.Calories,
			"skipped":    result.Skipped,
			"degraded":   result.Degraded,
			"casualties": result.Casualties,
			"kills":      result.Kills,
			"elapsed":    time.Since(started).String(),
		})
	}
	return nil
}
