package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/specsheet-cli/internal/engine"
	"github.com/sells-group/specsheet-cli/internal/model"
)

var servePort int

type parseRequest struct {
	Text         string             `json:"text"`
	CategoryHint string             `json:"category_hint,omitempty"`
	Schema       *model.FieldSchema `json:"schema,omitempty"`
}

type diffRequest struct {
	Existing map[string]string  `json:"existing"`
	Text     string             `json:"text"`
	Schema   *model.FieldSchema `json:"schema,omitempty"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parse/batch/diff API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/parse", func(w http.ResponseWriter, req *http.Request) {
			var body parseRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			result := engine.Parse(body.Text, requestSchema(body.Schema), &engine.Options{
				CrowdAliases: loadCrowdAliases(req.Context(), body.CategoryHint),
				CategoryHint: body.CategoryHint,
			})
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/v1/batch", func(w http.ResponseWriter, req *http.Request) {
			var body parseRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			items := engine.ParseBatch(req.Context(), body.Text, requestSchema(body.Schema), &engine.Options{
				CrowdAliases: loadCrowdAliases(req.Context(), ""),
			})
			writeJSON(w, http.StatusOK, items)
		})

		r.Post("/v1/diff", func(w http.ResponseWriter, req *http.Request) {
			var body diffRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			result := engine.Parse(body.Text, requestSchema(body.Schema), nil)
			writeJSON(w, http.StatusOK, engine.Diff(body.Existing, result.Fields))
		})

		r.Get("/v1/aliases", func(w http.ResponseWriter, req *http.Request) {
			st, err := initStore(req.Context())
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, "alias store unavailable")
				return
			}
			defer st.Close()
			if err := st.Migrate(req.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "alias store unavailable")
				return
			}
			aliases, err := st.ListAliases(req.Context(), req.URL.Query().Get("category"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "list aliases failed")
				return
			}
			writeJSON(w, http.StatusOK, aliases)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func requestSchema(s *model.FieldSchema) model.FieldSchema {
	if s != nil && len(s.Categories) > 0 {
		return *s
	}
	return model.DefaultSchema()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
