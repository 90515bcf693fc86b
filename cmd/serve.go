package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/outreach"
	"github.com/sells-group/recovery-cli/internal/store"
	"github.com/sells-group/recovery-cli/pkg/esign"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the projection API and provider webhooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Projection surface: read-only lead views plus approval filing.
		r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
			filter := store.LeadFilter{
				Status: model.LeadStatus(req.URL.Query().Get("status")),
				State:  req.URL.Query().Get("state"),
				Limit:  200,
			}
			leads, err := e.Store.ListLeads(req.Context(), filter)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, leads)
		})

		r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
			lead, err := e.Store.GetLead(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				if eris.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, err)
					return
				}
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, lead)
		})

		r.Get("/leads/{id}/activity", func(w http.ResponseWriter, req *http.Request) {
			entries, err := e.Authority.Activity(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, entries)
		})

		r.Get("/approvals", func(w http.ResponseWriter, req *http.Request) {
			pending, err := e.Authority.Pending(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, pending)
		})

		r.Post("/approvals", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				LeadID string `json:"lead_id"`
				Type   string `json:"type"`
				Note   string `json:"note"`
				Actor  string `json:"actor"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
				return
			}
			if body.LeadID == "" || body.Actor == "" {
				writeError(w, http.StatusBadRequest, eris.New("lead_id and actor are required"))
				return
			}
			actor := model.Actor{ID: body.Actor, Kind: model.ActorProjecting}
			approval, err := e.Authority.Request(req.Context(), actor, body.LeadID, model.RequestType(body.Type), body.Note, time.Now())
			if err != nil {
				if eris.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, err)
					return
				}
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusCreated, approval)
		})

		// Provider webhooks run under the server's operating identity.
		serverActor := model.Actor{ID: "webhook", Kind: model.ActorOperating}

		r.Post("/webhooks/reply", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				LeadID string `json:"lead_id"`
				Text   string `json:"text"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.LeadID == "" {
				writeError(w, http.StatusBadRequest, eris.New("lead_id is required"))
				return
			}
			out, err := e.Authority.HandleReply(req.Context(), serverActor, body.LeadID, body.Text, time.Now())
			if err != nil {
				if eris.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, err)
					return
				}
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Post("/webhooks/esign", func(w http.ResponseWriter, req *http.Request) {
			ev, err := esign.DecodeWebhook(req.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			out, err := e.Authority.ContractEvent(req.Context(), serverActor, ev.LeadID, outreach.ContractEvent(ev.Event), time.Now())
			if err != nil {
				if eris.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, err)
					return
				}
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go gracefulShutdown(ctx, srv, 10*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// gracefulShutdown waits for ctx to be cancelled, then drains in-flight
// requests on a fresh timeout context. Passing the cancelled signal context
// to Shutdown would abort immediately instead of draining.
func gracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	srv.Shutdown(shutdownCtx) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
