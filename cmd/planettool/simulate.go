package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/planetgrid/internal/config"
	"github.com/Faultbox/planetgrid/internal/logger"
	"github.com/Faultbox/planetgrid/internal/lod"
	"github.com/Faultbox/planetgrid/pkg/cubesphere"
	"github.com/Faultbox/planetgrid/pkg/math"
)

type tickResult struct {
	Tick    int                     `json:"tick"`
	Camera  math.WorldPos           `json:"camera"`
	Below   cubesphere.ChunkAddress `json:"below"`
	Stats   lod.Stats               `json:"stats"`
	Drained int                     `json:"drained"`
}

func cmdSimulate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	ticks := fs.Int("ticks", 100, "Number of updates to run")
	altitude := fs.Float64("altitude", 2000, "Camera height above the surface")
	lat := fs.Float64("lat", 0, "Latitude of the camera's path in degrees")
	speed := fs.Float64("speed", 0.5, "Degrees of longitude travelled per tick")
	drain := fs.Int("drain", 64, "Queued chunks consumed per tick (0 = none)")
	every := fs.Int("every", 1, "Print every Nth tick")
	hold := fs.Bool("hold", false, "Keep serving metrics after the run until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ticks < 0 || *every < 1 {
		return fmt.Errorf("ticks must be non-negative and every positive")
	}

	log := logger.Named("simulate")

	var srv *http.Server
	if cfg.Metrics.Listen != "" {
		srv = startMetrics(cfg.Metrics.Listen, log)
	}

	m := lod.NewManager(cfg.Planet, cfg.LOD, lod.WithLogger(logger.Named("lod")))
	enc := json.NewEncoder(stdout)

	start := time.Now()
	var total lod.Stats
	for tick := 0; tick < *ticks; tick++ {
		dir := latLonToDirection(*lat, float64(tick)*(*speed))
		local := dir.Mul(cfg.Planet.Radius + *altitude)

		s := m.Update(local)
		total.Splits += s.Splits
		total.BalanceSplits += s.BalanceSplits
		total.CornerSplits += s.CornerSplits
		total.Merges += s.Merges

		drained := 0
		for drained < *drain {
			if _, ok := m.Next(); !ok {
				break
			}
			drained++
		}

		if tick%(*every) == 0 || tick == *ticks-1 {
			err := enc.Encode(tickResult{
				Tick:    tick,
				Camera:  cfg.Planet.Center.Offset(local),
				Below:   m.Locate(local),
				Stats:   s,
				Drained: drained,
			})
			if err != nil {
				return err
			}
		}
	}

	log.Info("simulation finished",
		zap.Int("ticks", *ticks),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("splits", total.Splits),
		zap.Int("balance_splits", total.BalanceSplits),
		zap.Int("corner_splits", total.CornerSplits),
		zap.Int("merges", total.Merges),
		zap.Int("leaves", m.Planet().LeafCount()))

	if srv == nil {
		return nil
	}
	if *hold {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		log.Info("serving metrics until interrupted", zap.String("addr", cfg.Metrics.Listen))
		<-ctx.Done()
		stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// startMetrics serves the Prometheus registry on addr in the background.
func startMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
