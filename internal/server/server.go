package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
)

// document is one pre-encoded response with its caching metadata.
type document struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// documents holds every route of one snapshot, swapped as a unit.
type documents map[string]*document

// statsPayload is the body of the stats route.
type statsPayload struct {
	Profile     engine.Profile `json:"profile"`
	Stats       engine.Stats   `json:"stats"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// WeeksServer serves the latest snapshot over HTTP.
type WeeksServer struct {
	// Reads vastly outnumber updates (one per refresh), so readers load the
	// pointer without locking.
	cache atomic.Pointer[documents]
	Port  string
}

// NewWeeksServer creates a new instance of the server.
func NewWeeksServer(port string) *WeeksServer {
	return &WeeksServer{
		Port: port,
	}
}

// Handler returns the route multiplexer.
func (s *WeeksServer) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range []string{config.RouteWeeks, config.RouteStats, config.RouteCalendar} {
		mux.HandleFunc(route, s.serve(route))
	}
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *WeeksServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update encodes every route for snap and swaps them in atomically. On an
// encoding error the previous documents stay in place.
func (s *WeeksServer) Update(snap *engine.Snapshot) error {
	weeks, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	stats, err := json.Marshal(statsPayload{
		Profile:     snap.Profile,
		Stats:       snap.Stats,
		GeneratedAt: snap.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}

	lastMod := time.Now().UTC().Format(http.TimeFormat)
	docs := documents{
		config.RouteWeeks:    newDocument(weeks, config.MimeJSON, lastMod),
		config.RouteStats:    newDocument(stats, config.MimeJSON, lastMod),
		config.RouteCalendar: newDocument(snap.Calendar, config.MimeTextCalendar, lastMod),
	}

	// Concurrent readers see either the old or the new set, never a mix.
	s.cache.Store(&docs)

	for route, d := range docs {
		slog.Debug(config.MsgCacheUpdated,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRoute, route,
			config.LogKeySizeBytes, len(d.data),
			config.LogKeyETag, d.etag,
		)
	}
	return nil
}

func newDocument(data []byte, contentType, lastMod string) *document {
	hash := sha256.Sum256(data)
	return &document{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: lastMod,
	}
}

// serve returns the handler for one route, with HTTP caching support.
func (s *WeeksServer) serve(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		docs := s.cache.Load()
		if docs == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		doc, ok := (*docs)[route]
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set(config.HeaderContentType, doc.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, doc.etag)
		w.Header().Set(config.HeaderLastModified, doc.lastModified)

		if notModified(r, doc) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyRoute, route,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, doc *document) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == doc.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, doc.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
