package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/drawdeck/drawdeck/backend-go/internal/asset"
	"github.com/drawdeck/drawdeck/backend-go/internal/auth"
	"github.com/drawdeck/drawdeck/backend-go/internal/collab"
	"github.com/drawdeck/drawdeck/backend-go/internal/config"
	"github.com/drawdeck/drawdeck/backend-go/internal/export"
	mw "github.com/drawdeck/drawdeck/backend-go/internal/middleware"
	"github.com/drawdeck/drawdeck/backend-go/internal/project"
	"github.com/drawdeck/drawdeck/backend-go/internal/scene"
	"github.com/drawdeck/drawdeck/backend-go/internal/store"
	"github.com/drawdeck/drawdeck/backend-go/internal/typeid"
)

// playgroundProjectID is the shared anonymous project. Its document lives
// only in hub memory and is never persisted.
const playgroundProjectID = "proj_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		slog.Error("apply schema", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(st)
	projectHandler := project.NewHandler(projectService)

	// Document loader for the collaboration hub
	docLoader := func(projectID string) (*collab.DocumentState, error) {
		if projectID == playgroundProjectID {
			return collab.NewDocumentState(scene.NewSampleDocument(projectID)), nil
		}

		// Background context since this runs in the hub goroutine.
		snap, err := st.GetLatestSnapshot(context.Background(), projectID)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		var doc scene.Document
		if err := json.Unmarshal(snap.Document, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return collab.NewDocumentState(&doc), nil
	}

	// Document saver for the collaboration hub
	docSaver := func(projectID string, state *collab.DocumentState) error {
		if projectID == playgroundProjectID {
			return nil
		}

		docJSON, _, err := state.Snapshot()
		if err != nil {
			return err
		}

		nextVersion := int32(1)
		currentSnap, err := st.GetLatestSnapshot(context.Background(), projectID)
		if err == nil {
			nextVersion = currentSnap.Version + 1
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get current snapshot: %w", err)
		}

		_, err = st.CreateSnapshot(context.Background(), store.CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			ProjectID: projectID,
			Version:   nextVersion,
			Document:  docJSON,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}

		// The project row lives outside the snapshot. Sync its name when a
		// collaborative rename happened, and bump updated_at either way so
		// project listings sort edited projects first.
		if name, renamed := state.PendingRename(); renamed {
			if err := st.RenameProject(context.Background(), projectID, name); err != nil {
				return fmt.Errorf("rename project: %w", err)
			}
		} else if err := st.TouchProject(context.Background(), projectID); err != nil {
			return fmt.Errorf("touch project: %w", err)
		}
		return nil
	}

	hub := collab.NewHub(docLoader, docSaver)
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(st)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints (public — used by playground and authenticated users)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Scene export
	r.HandleFunc("/export/{projectId}/document", exportHandler.ExportDocument).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods("POST")
	api.HandleFunc("/projects/{projectId}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/projects/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/snapshots/latest", projectHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, st, cfg.AllowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty documents
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, st *store.Store, allowedOrigins string) {
	vars := mux.Vars(r)
	projectID := vars["projectId"]

	var userID string
	var displayName string

	if projectID == playgroundProjectID {
		// Anonymous user for playground
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for real projects
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if _, err := st.GetProjectMember(r.Context(), projectID, userID); err != nil {
			http.Error(w, "not a project member", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(allowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, projectID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips schemes from the configured origins since
// websocket.AcceptOptions matches host patterns only.
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}
