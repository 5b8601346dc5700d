// Command tacticsd runs the tactics engine's job API daemon: enqueue,
// status, and cancel endpoints over HTTP, backed by the in-process
// dispatcher and artifact store, per spec §6.
//
// Usage:
//
//	go run ./cmd/tacticsd [flags]
//
// Flags:
//
//	-addr       Listen address (default: :8090)
//	-db         Path to sqlite job store (default: in-memory)
//	-log-format Log output format, "text" or "json" (default: text)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/matchforge/tactics-engine/internal/tactics/artifact"
	"github.com/matchforge/tactics-engine/internal/tactics/jobs"
	"github.com/matchforge/tactics-engine/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8090", "Listen address")
	dbPath := flag.String("db", "", "Path to sqlite job store (empty: in-memory)")
	logFormat := flag.String("log-format", "text", "Log output format: text or json")
	flag.Parse()

	configureTelemetry(*logFormat)

	store, closeStore := buildJobStore(*dbPath)
	defer closeStore()

	artifacts := artifact.NewMemStore(nil)
	bus := artifact.NewBus()

	dispatcher := jobs.NewDispatcher(store, time.Now)
	initRunners(artifacts, bus)
	for kind, runner := range runnerTable {
		dispatcher.RegisterRunner(kind, runner)
	}

	server := NewServer(dispatcher, store)
	httpServer := &http.Server{
		Addr:    *addr,
		Handler: correlationMiddleware(server.ServeMux()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("tacticsd listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("tacticsd: server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("tacticsd: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("tacticsd: shutdown error: %v", err)
		if err := httpServer.Close(); err != nil {
			log.Printf("tacticsd: force close error: %v", err)
		}
	}
}

func buildJobStore(dbPath string) (jobs.Store, func()) {
	if dbPath == "" {
		return jobs.NewMemStore(), func() {}
	}
	store, err := jobs.OpenSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("tacticsd: open sqlite job store: %v", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("tacticsd: close job store: %v", err)
		}
	}
}

func configureTelemetry(format string) {
	var w io.Writer = os.Stderr
	switch format {
	case "text":
	case "json":
		w = &jsonLineWriter{out: os.Stderr}
	default:
		log.Fatalf("tacticsd: unknown -log-format %q, want text or json", format)
	}
	telemetry.SetLogWriters(telemetry.LogWriters{Ops: w, Diag: w, Trace: nil})
}

// jsonLineWriter wraps each log.Logger-formatted line in a {"msg": "..."}
// envelope, for deployments that ship logs to a JSON-only collector.
type jsonLineWriter struct {
	out io.Writer
}

func (w *jsonLineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	encoded, err := json.Marshal(map[string]string{"msg": line})
	if err != nil {
		return 0, err
	}
	if _, err := w.out.Write(append(encoded, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}
