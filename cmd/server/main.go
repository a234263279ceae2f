package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/vecdraw/internal/auth"
	"github.com/inamate/vecdraw/internal/collab"
	"github.com/inamate/vecdraw/internal/config"
	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/engine"
	"github.com/inamate/vecdraw/internal/export"
	mw "github.com/inamate/vecdraw/internal/middleware"
	"github.com/inamate/vecdraw/internal/typeid"
)

// sampleDrawingID opens the built-in sample instead of a blank drawing.
const sampleDrawingID = "sample"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	// Drawing opener for the collaboration hub
	openDrawing := func(drawingID string) (*engine.Engine, error) {
		e := engine.NewEngine(engine.WithHistoryLimit(cfg.HistoryLimit))
		if drawingID == sampleDrawingID {
			e.LoadSampleDrawing(drawingID)
			return e, nil
		}

		now := time.Now().UTC().Format(time.RFC3339)
		d := document.NewEmptyDrawing(drawingID, "Untitled", cfg.SurfaceWidth, cfg.SurfaceHeight)
		d.CreatedAt, d.UpdatedAt = now, now
		if err := e.OpenDrawing(d); err != nil {
			return nil, err
		}
		return e, nil
	}

	hub := collab.NewHub(openDrawing)
	go hub.Run()

	exportHandler := export.NewHandler(hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Session routes (public)
	r.HandleFunc("/sessions", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/drawings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"id": typeid.NewDrawingID()})
	}).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		d, err := hub.Drawing(mux.Vars(r)["drawingId"])
		if err != nil {
			if errors.Is(err, collab.ErrRoomNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "drawing not open"})
				return
			}
			slog.Error("get drawing", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, d)
	}).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}/export.svg", exportHandler.ExportSVG).Methods("GET")

	// WebSocket endpoint
	originPatterns := websocketOrigins(cfg.Origins())
	r.HandleFunc("/ws/drawing/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, originPatterns)
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

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, originPatterns []string) {
	drawingID := mux.Vars(r)["drawingId"]
	if drawingID != sampleDrawingID {
		if err := typeid.Validate(drawingID, typeid.PrefixDrawing); err != nil {
			http.Error(w, "invalid drawing id", http.StatusBadRequest)
			return
		}
	}

	// Auth via query param
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	user, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, user.ID, user.DisplayName, drawingID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// websocketOrigins turns allowed origins into the host patterns the
// websocket library matches against.
func websocketOrigins(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			patterns = append(patterns, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			slog.Warn("ignoring allowed origin", "origin", o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
