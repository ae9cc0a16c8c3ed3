package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/store"
)

// Server wraps the HTTP server for the web editor.
type Server struct {
	httpServer  *http.Server
	watcher     *FileWatcher
	wsHub       *WebSocketHub
	unsubscribe func()
}

// NewServer creates a new server for handler's deck. If files is non-nil,
// its directory is watched and external edits are reloaded into the deck.
func NewServer(handler *Handler, cfg model.ServerConfig, files *store.FileStore) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub()
	wsHub.SetDeck(handler.state)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)
	unsubscribe := handler.state.Subscribe(wsHub)

	var watcher *FileWatcher
	if files != nil {
		var err error
		watcher, err = NewFileWatcher(files)
		if err != nil {
			log.Printf("Warning: failed to create file watcher: %v", err)
		} else {
			watcher.Subscribe(deckReloader(handler, files))
		}
	}

	wrapped := Logging(Cors(RateLimit(cfg.RateLimit, cfg.Burst, mux)))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher:     watcher,
		wsHub:       wsHub,
		unsubscribe: unsubscribe,
	}
}

// deckReloader reloads the deck when its own blob changes on disk. The blob
// is matched by path since files may store the key under a sanitized name.
// Writes made by the deck itself are recognized and skipped by
// ReloadIfChanged.
func deckReloader(handler *Handler, files *store.FileStore) FileWatcherSubscriber {
	return FileWatcherFunc(func(change FileChange) {
		if change.Type == FileChangeDeleted {
			return
		}
		if filepath.Clean(change.Path) != files.PathFor(handler.state.StorageKey()) {
			return
		}
		if handler.state.ReloadIfChanged() {
			log.Printf("Reloaded deck after external edit: %s", change.Path)
		}
	})
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	// Start file watcher if available
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Printf("Warning: failed to start file watcher: %v", err)
		}
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.unsubscribe()
	s.wsHub.Close()

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
