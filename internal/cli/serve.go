package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftline/collective/internal/config"
	"github.com/driftline/collective/internal/memory"
	"github.com/driftline/collective/internal/persist"
	"github.com/driftline/collective/internal/server"
	"github.com/spf13/cobra"
)

var serveNoPersist bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoPersist, "no-persist", false, "Skip snapshot persistence (log-only sink)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	store, err := memory.New(cfg.MemoryOptions())
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	// Resolve the snapshot sink
	var (
		sink memory.Sink
		db   *persist.DB
	)
	if serveNoPersist {
		sink = persist.LogSink{}
	} else {
		dbPath := cfg.Database.Path
		if dbPath == "" {
			dbPath, err = persist.DefaultDBPath()
			if err != nil {
				return fmt.Errorf("resolve db path: %w", err)
			}
		}
		db, err = persist.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		sink = db
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
	}

	svc := memory.NewService(store, sink)
	svc.Start()
	defer svc.Stop()

	srv := server.New(svc, db, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "collective serving on %s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
