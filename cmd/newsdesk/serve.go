// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsdesk/internal/generate"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// maxRequestBody caps request bodies; draft requests carry full outlines
// and source lists.
const maxRequestBody = 4 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ideas, outline, and draft tasks over HTTP",
	Long: `Serve exposes the generation tasks as JSON endpoints:

  POST /api/ideas     {"topic", "num_ideas"}
  POST /api/outline   {"headline", "thesis", "key_facts", "suggested_visualization", "enable_web_search"}
  POST /api/draft     {"headline", "thesis", "outline", "sources", "key_facts", "target_word_count", "enable_web_search"}
  GET  /health

Invalid requests return 400; generation failures return 500.`,
	RunE: runServe,
}

// tasks is the part of the orchestrator the HTTP surface uses.
type tasks interface {
	Ideas(ctx context.Context, req generate.IdeasRequest) (*types.IdeaSet, error)
	Outline(ctx context.Context, req generate.OutlineRequest) (*types.OutlineArtifact, error)
	Draft(ctx context.Context, req generate.DraftRequest) (*types.DraftArtifact, error)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	o, closeFn, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(o, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newHandler routes the task endpoints to t.
func newHandler(t tasks, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	mux.HandleFunc("POST /api/ideas", taskHandler(log, "ideas", t.Ideas))
	mux.HandleFunc("POST /api/outline", taskHandler(log, "outline", t.Outline))
	mux.HandleFunc("POST /api/draft", taskHandler(log, "draft", t.Draft))
	return mux
}

// taskHandler decodes a request body into Req, runs fn, and maps errors:
// malformed bodies and validation failures are 400, anything else 500.
func taskHandler[Req, Resp any](log *slog.Logger, task string, fn func(context.Context, Req) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		resp, err := fn(r.Context(), req)
		switch {
		case generate.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			log.Error("task failed", "task", task, "error", err)
			writeError(w, http.StatusInternalServerError, "Error generating "+task)
		default:
			writeJSON(w, http.StatusOK, resp)
		}
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: serve.addr)")

	rootCmd.AddCommand(serveCmd)
}
