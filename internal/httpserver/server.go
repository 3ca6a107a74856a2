// internal/httpserver/server.go
//
// HTTP server wiring for the Word Hunt backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): new, view, drag events, one-shot select,
//     restart, printable PDF.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/history endpoints when a database is configured.
//
// Notes:
//   - Puzzle state lives only in the session store; the database (optional)
//     receives outcome rows: a game started, how many words were found, won.
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Recoverer turns any unexpected panic into a 500 instead of a dead connection.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	mrand "math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/export"
	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
	"github.com/robalobadob/wordhunt/internal/store"
	"github.com/robalobadob/wordhunt/internal/words"
)

const maxGridSize = 30

// Server bundles router, in-memory session store, optional DB handle and config.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB // nil disables accounts, history and daily completion records
	cfg   config.Config
	words []string
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config, targetWords []string) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, words: targetWords}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordhunt-go","endpoints":["/health","POST /game/new","POST /game/{id}/drag","POST /game/{id}/select","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"sessions": s.store.Len(), "words": len(s.words)})
	})

	// Game endpoints: optional auth, guests can play
	s.r.With(s.withOptionalAuth()).Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/drag", s.handleDrag)
		r.Post("/{id}/select", s.handleSelect)
		r.Post("/{id}/restart", s.handleRestart)
		r.Get("/{id}/print.pdf", s.handlePrint)
	})

	// Daily puzzle: optional auth
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/history need the database.
	if s.db != nil {
		s.mountAuthRoutes()
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// jsonError writes {"error": code} with the given status.
func jsonError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new. Every field is optional.
type newGameReq struct {
	Size  int      `json:"size"`
	Words []string `json:"words"`
	Seed  *int64   `json:"seed"`
}

// gameRes is a session view plus the outcome of the request's drag, if any.
type gameRes struct {
	game.View
	Result *game.Result `json:"match,omitempty"`
}

// newPlacer builds a placer seeded with seed (random when nil).
func (s *Server) newPlacer(size int, seed *int64) *puzzle.Placer {
	n := time.Now().UnixNano()
	if seed != nil {
		n = *seed
	}
	logger := log.Logger.With().Str("component", "placer").Logger()
	return puzzle.NewPlacer(size, s.cfg.Puzzle.Retries, mrand.New(mrand.NewSource(n)), logger)
}

// handleNewGame creates a session and records an outcome row for its owner.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}

	size := req.Size
	if size == 0 {
		size = s.cfg.Puzzle.Size
	}
	if size < 2 || size > maxGridSize {
		jsonError(w, http.StatusBadRequest, "invalid_size")
		return
	}
	list := s.words
	if len(req.Words) > 0 {
		if err := words.Validate(req.Words); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid_words")
			return
		}
		list = req.Words
	}

	sess := game.New(list, s.newPlacer(size, req.Seed))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if un := sess.Unplaced(); len(un) > 0 {
		log.Warn().Str("gameId", sess.ID).Strs("unplaced", un).Msg("puzzle generated without some words")
	}
	s.recordStart(w, r, sess)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(gameRes{View: sess.View()})
}

// session loads the {id} session or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("load session")
		}
		jsonError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(gameRes{View: sess.View()})
}

// dragReq is one pointer event on the grid.
type dragReq struct {
	Phase string `json:"phase"` // start | move | end | leave
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// handleDrag feeds a pointer event into the session's drag lifecycle.
// start/move carry the cell under the pointer; end/leave ignore row/col.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dragReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var res *game.Result
	c := puzzle.Coord{Row: req.Row, Col: req.Col}
	switch req.Phase {
	case "start":
		sess.BeginDrag(c)
	case "move":
		sess.ExtendDrag(c)
	case "end":
		out := sess.EndDrag()
		res = &out
	case "leave":
		out := sess.LeaveGrid()
		res = &out
	default:
		jsonError(w, http.StatusBadRequest, "invalid_phase")
		return
	}
	if res != nil {
		s.recordResult(w, r, sess, *res)
	}
	_ = json.NewEncoder(w).Encode(gameRes{View: sess.View(), Result: res})
}

// selectReq is a complete drag from start to end.
type selectReq struct {
	Start puzzle.Coord `json:"start"`
	End   puzzle.Coord `json:"end"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res := sess.Select(req.Start, req.End)
	s.recordResult(w, r, sess, res)
	_ = json.NewEncoder(w).Encode(gameRes{View: sess.View(), Result: &res})
}

// handleRestart regenerates the grid in place. Daily puzzles are fixed for the day.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if sess.Daily != "" {
		jsonError(w, http.StatusConflict, "daily_fixed")
		return
	}
	sess.Restart()
	s.recordStart(w, r, sess)
	_ = json.NewEncoder(w).Encode(gameRes{View: sess.View()})
}

// handlePrint renders the session as a printable PDF. ?answers=1 outlines the
// placements once the game is won.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	answers, _ := strconv.ParseBool(r.URL.Query().Get("answers"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="wordhunt-`+sess.ID+`.pdf"`)
	if err := export.WritePuzzlePDF(w, sess.View(), export.PDFOptions{ShadeFound: true, ShowAnswers: answers}); err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("render pdf")
		jsonError(w, http.StatusInternalServerError, "render_failed")
	}
}

// --------------------------- outcome history -------------------------------

// owner returns the SQL owner clause and argument for the caller.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (userID, anonID string) {
	if me := currentUser(r); me != nil {
		return me.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}

// recordStart upserts the outcome row for a (re)started session.
func (s *Server) recordStart(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	if s.db == nil {
		return
	}
	userID, anonID := s.owner(w, r)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(r.Context(), `
		INSERT INTO games (id, user_id, anonymous_id, daily_date, started_at, status, words_total, words_found)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, 'playing', ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at, finished_at = NULL, status = 'playing',
			words_total = excluded.words_total, words_found = 0`,
		sess.ID, userID, anonID, sess.Daily, now, sess.Placed())
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
		return
	}
	if userID != "" {
		if _, err := s.db.ExecContext(r.Context(),
			`UPDATE users SET games_played = games_played + 1 WHERE id=?`, userID); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("bump games played")
		}
	}
}

// recordResult persists progress after a newly found word (best effort).
func (s *Server) recordResult(w http.ResponseWriter, r *http.Request, sess *game.Session, res game.Result) {
	if !res.New {
		return
	}
	won := res.State == game.StateWon
	if won {
		log.Info().Str("gameId", sess.ID).Dur("elapsed", res.Elapsed).Msg("puzzle solved")
		s.daily.recordWin(r, sess, res)
	}
	if s.db == nil {
		return
	}

	userID, _ := s.owner(w, r)
	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	found := sess.Placed() - res.Remaining
	if _, err := tx.Exec(`UPDATE games SET words_found=? WHERE id=?`, found, sess.ID); err != nil {
		log.Warn().Err(err).Msg("update words found")
	}
	if won {
		if _, err := tx.Exec(`UPDATE games SET status='won', finished_at=? WHERE id=?`,
			res.WonAt.UTC().Format(time.RFC3339), sess.ID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if userID != "" {
			if _, err := tx.Exec(`UPDATE users SET wins = wins + 1 WHERE id=?`, userID); err != nil {
				log.Warn().Err(err).Str("user", userID).Msg("bump wins")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit progress")
	}
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
