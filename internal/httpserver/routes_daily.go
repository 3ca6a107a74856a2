// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new    → start today's puzzle (creates or reuses the session)
//   - GET  /daily/status → whether the caller already solved today's puzzle
//
// The grid is seeded from date + salt so every player gets the same puzzle.
// Play itself goes through the regular /game/{id} endpoints; a win on a daily
// session records the elapsed time once per player and day.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/daily"
	"github.com/robalobadob/wordhunt/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store // nil without a database
	salt  string
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]string       // userID|date -> game ID
	owners   map[string]string       // game ID -> userID
	done     map[string]daily.Result // userID|date -> completion, when there is no database
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]string),
		owners:   make(map[string]string),
		done:     make(map[string]daily.Result),
	}
	if s.db != nil {
		dd.store = daily.NewStore(s.db)
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/status", dd.handleStatus)
	})
}

// userID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// completion looks up a stored result for uid on date.
func (d *dailyServer) completion(r *http.Request, uid, date string) (daily.Result, bool) {
	if d.store != nil {
		played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
		if err != nil {
			log.Warn().Err(err).Msg("daily lookup")
			return daily.Result{}, false
		}
		if !played {
			return daily.Result{}, false
		}
		res, err := d.store.Get(r.Context(), uid, date)
		return res, err == nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	res, ok := d.done[uid+"|"+date]
	return res, ok
}

// dailyRes is returned by /daily/new and /daily/status.
type dailyRes struct {
	GameID    string     `json:"gameId,omitempty"`
	Date      string     `json:"date"`
	Played    bool       `json:"played"`
	ElapsedMs int        `json:"elapsedMs,omitempty"`
	View      *game.View `json:"view,omitempty"`
}

// handleNew creates or reuses today's daily session.
//   - Already solved today → Played=true and the recorded time, no session.
//   - Otherwise the caller's live session for today, creating it on first call.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if res, ok := d.completion(r, uid, date); ok {
		_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Played: true, ElapsedMs: res.ElapsedMs})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	if id, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			v := sess.View()
			_ = json.NewEncoder(w).Encode(dailyRes{GameID: sess.ID, Date: date, View: &v})
			return
		}
		d.mu.Lock()
	}
	seed := daily.Seed(now, d.salt)
	sess := game.New(d.srv.words, d.srv.newPlacer(d.srv.cfg.Puzzle.Size, &seed))
	sess.Daily = date
	d.sessions[key] = sess.ID
	d.owners[sess.ID] = uid
	d.mu.Unlock()

	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.srv.recordStart(w, r, sess)

	v := sess.View()
	_ = json.NewEncoder(w).Encode(dailyRes{GameID: sess.ID, Date: date, View: &v})
}

// handleStatus reports whether the caller solved today's puzzle.
func (d *dailyServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	date := daily.DateKey(d.now())
	res, played := d.completion(r, uid, date)
	out := dailyRes{Date: date, Played: played, ElapsedMs: res.ElapsedMs}

	d.mu.Lock()
	out.GameID = d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if played {
		out.GameID = ""
	}
	_ = json.NewEncoder(w).Encode(out)
}

// recordWin stores the completion of a daily session, once per player and day.
func (d *dailyServer) recordWin(r *http.Request, sess *game.Session, won game.Result) {
	if d == nil || sess.Daily == "" {
		return
	}
	d.mu.Lock()
	uid, ok := d.owners[sess.ID]
	d.mu.Unlock()
	if !ok {
		return
	}
	res := daily.Result{
		UserID:    uid,
		Date:      sess.Daily,
		ElapsedMs: int(won.Elapsed / time.Millisecond),
	}

	if d.store != nil {
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
		return
	}
	d.mu.Lock()
	key := uid + "|" + sess.Daily
	if _, dup := d.done[key]; !dup {
		d.done[key] = res
	}
	d.mu.Unlock()
}
