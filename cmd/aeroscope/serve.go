package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/hugr-lab/aeroscope-go"
	"github.com/hugr-lab/aeroscope-go/auth"
	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/sqlstore"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "aeroscope.yaml", "configuration file")
	address := fs.String("address", "", "listen address, overrides the config file")
	logLevel := fs.String("log-level", "", "log level, overrides the config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := cfg.openStore(ctx, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	cat, err := loadCatalog(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	config := aeroscope.ServerConfig{
		Catalog:        cat,
		Logger:         logger,
		MaxMessageSize: cfg.MaxMessageSize,
		MaxSessions:    cfg.MaxSessions,
		Address:        cfg.Address,
	}
	if len(cfg.Tokens) > 0 {
		config.Auth = auth.TokenAuth(cfg.Tokens)
	}

	grpcServer := grpc.NewServer(aeroscope.ServerOptions(config)...)
	if _, err := aeroscope.NewServer(grpcServer, config); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("AeroSCOPE server listening", "address", lis.Addr().String(), "sources", len(cfg.Sources))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(shutdownTimeout):
			grpcServer.Stop()
		}
		return nil
	})
	return g.Wait()
}

// loadCatalog loads every configured source concurrently.
func loadCatalog(ctx context.Context, cfg *Config, store *sqlstore.Store, logger *slog.Logger) (catalog.Catalog, error) {
	tables := make([]*dataset.Table, len(cfg.Sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range cfg.Sources {
		g.Go(func() error {
			start := time.Now()
			table, err := src.load(ctx, store)
			if err != nil {
				return err
			}
			tables[i] = table
			logger.Info("Loaded source",
				"source", src.Name,
				"rows", table.Len(),
				"duration", time.Since(start),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	builder := aeroscope.NewCatalogBuilder().Logger(logger)
	for i, src := range cfg.Sources {
		builder.Source(src.Name, src.Comment, tables[i])
	}
	return builder.Build()
}
