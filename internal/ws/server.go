package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/ladder"
	"github.com/programmatix/game-tracker/internal/pins"
)

const maxPinBodyBytes = 1 << 20

// PinStore persists pinned achievement ids per user.
type PinStore interface {
	Get(ctx context.Context, username string) ([]string, error)
	Set(ctx context.Context, username string, ids []string) error
}

// SeenState reports which completed ids are new since the last periodic
// snapshot.
type SeenState interface {
	SinceSnapshot(completed []string) []string
}

// NewSinceSnapshot returns the achievements in all completed since seen's
// last snapshot. A nil seen reports nothing new.
func NewSinceSnapshot(seen SeenState, all []achievements.Achievement) []achievements.Achievement {
	if seen == nil {
		return []achievements.Achievement{}
	}
	return ladder.Select(all, seen.SinceSnapshot(ladder.CompletedIDs(all)))
}

type Options struct {
	// Username owns the watched play log and authenticated pin calls.
	Username       string
	AuthToken      string
	AllowedOrigins []string
	NextLimit      int
}

type Server struct {
	opts           Options
	service        *ladder.Service
	store          *ladder.Store
	pins           PinStore
	broadcaster    *Broadcaster
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	health         func() HealthPayload
	seen           SeenState
	logger         zerolog.Logger
}

func NewServer(opts Options, service *ladder.Service, store *ladder.Store, pinStore PinStore, broadcaster *Broadcaster, logger zerolog.Logger) *Server {
	if opts.NextLimit <= 0 {
		opts.NextLimit = 5
	}
	s := &Server{
		opts:           opts,
		service:        service,
		store:          store,
		pins:           pinStore,
		broadcaster:    broadcaster,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		logger:         logger,
	}

	for _, origin := range opts.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

// SetSeenState installs the source of newSinceSnapshot in achievement
// responses.
func (s *Server) SetSeenState(seen SeenState) {
	s.seen = seen
}

// SetHealthHook installs the source of /api/health responses.
func (s *Server) SetHealthHook(fn func() HealthPayload) {
	s.health = fn
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/games", s.requireAuth(s.handleGames))
	mux.HandleFunc("GET /api/achievements", s.requireAuth(s.handleAchievements))
	mux.HandleFunc("GET /api/achievements/next", s.requireAuth(s.handleNext))
	mux.HandleFunc("GET /api/entries", s.requireAuth(s.handleEntries))
	mux.HandleFunc("POST /api/pins/get", s.requireAuth(s.handlePinsGet))
	mux.HandleFunc("POST /api/pins/set", s.requireAuth(s.handlePinsSet))
}

// Handler returns the routes wrapped in CORS, request id and security
// header middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool { return s.originAllowed(origin, "") },
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})
	return RequestID(s.logger)(securityHeaders(c.Handler(mux)))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	log := zerolog.Ctx(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade error")
		return
	}

	c, err := s.broadcaster.AddClient(conn)
	if err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("rejecting websocket client")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		conn.Close()
		return
	}
	log.Info().Str("remote_addr", r.RemoteAddr).Msg("websocket client connected")

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Info().Str("remote_addr", r.RemoteAddr).Msg("websocket client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := HealthPayload{Status: StatusHealthy}
	if s.health != nil {
		payload = s.health()
	}
	_, computedAt, ok := s.store.Get()
	if ok && payload.LastReload.IsZero() {
		payload.LastReload = computedAt
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	out := []GameInfo{}
	for _, g := range s.service.Registry().Games() {
		out = append(out, GameInfo{ID: g.ID(), Name: g.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

// latest returns the stored ladder, answering 503 when none exists yet.
func (s *Server) latest(w http.ResponseWriter) (ladder.Result, bool) {
	res, _, ok := s.store.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "ladder not computed yet")
	}
	return res, ok
}

// pinned loads the configured user's pins. The ladder and the pin RPC
// both belong to that user.
func (s *Server) pinned(r *http.Request) achievements.PinSet {
	ids, err := s.pins.Get(r.Context(), s.opts.Username)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("username", s.opts.Username).Msg("failed to load pins, sorting without them")
		return nil
	}
	return achievements.NewPinSet(ids)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	res, ok := s.latest(w)
	if !ok {
		return
	}
	all := res.Achievements()
	p := achievements.SortUnlocked(all, s.pinned(r))
	writeJSON(w, http.StatusOK, AchievementsResponse{
		Available:        p.Available,
		Completed:        p.Completed,
		NewSinceSnapshot: NewSinceSnapshot(s.seen, all),
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.NextLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	res, ok := s.latest(w)
	if !ok {
		return
	}
	next := achievements.NextAchievements(res.Achievements(), s.pinned(r), limit)
	if next == nil {
		next = []achievements.Achievement{}
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if _, ok := s.service.Registry().Get(gameID); !ok {
		writeError(w, http.StatusNotFound, "unknown game")
		return
	}
	res, ok := s.latest(w)
	if !ok {
		return
	}
	g, _ := res.Game(gameID)
	writeJSON(w, http.StatusOK, g.Entries)
}

func (s *Server) handlePinsGet(w http.ResponseWriter, r *http.Request) {
	ids, err := s.pins.Get(r.Context(), s.opts.Username)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to read pins")
		writeError(w, http.StatusInternalServerError, "failed to read pins")
		return
	}
	writeJSON(w, http.StatusOK, pins.IDs{IDs: ids})
}

func (s *Server) handlePinsSet(w http.ResponseWriter, r *http.Request) {
	var body pins.IDs
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPinBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if len(body.IDs) > pins.MaxPins {
		writeError(w, http.StatusRequestEntityTooLarge, "too many pins")
		return
	}
	if err := s.pins.Set(r.Context(), s.opts.Username, body.IDs); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save pins")
		writeError(w, http.StatusInternalServerError, "failed to save pins")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorize(r) {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next(w, r)
	}
}

func (s *Server) authorize(r *http.Request) bool {
	if s.opts.AuthToken == "" {
		return true
	}

	if r.URL.Query().Get("token") == s.opts.AuthToken {
		return true
	}

	if r.Header.Get("X-Ladder-Token") == s.opts.AuthToken {
		return true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.opts.AuthToken {
		return true
	}

	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return s.originAllowed(origin, r.Host)
}

// originAllowed accepts configured origins, or when none are configured the
// request's own host and loopback addresses.
func (s *Server) originAllowed(origin, requestHost string) bool {
	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	if requestHost != "" && parsed.Host == requestHost {
		return true
	}
	hostname := parsed.Hostname()
	return hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorPayload{Error: msg})
}
