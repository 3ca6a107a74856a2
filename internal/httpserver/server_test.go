package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/db"
	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/puzzle"
	"github.com/robalobadob/wordhunt/internal/store"
)

var testWords = []string{"meow", "unreal", "baby", "waffles"}

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Puzzle.Size = 10
	if !withDB {
		return New(store.NewMemoryStore(), nil, cfg, testWords)
	}
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))
	return New(store.NewMemoryStore(), conn, cfg, testWords)
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	srv     *Server
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// solve selects every placement of the session through the HTTP API.
func (c *client) solve(id string) gameRes {
	c.t.Helper()
	sess, err := c.srv.store.Get(context.Background(), id)
	require.NoError(c.t, err)
	var last gameRes
	for _, p := range sess.Placements() {
		rec := c.do(http.MethodPost, "/game/"+id+"/select", selectReq{Start: p.Cells[0], End: p.Cells[len(p.Cells)-1]})
		require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
		last = decode[gameRes](c.t, rec)
		require.NotNil(c.t, last.Result)
		require.True(c.t, last.Result.New, p.Word)
	}
	return last
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestNewGameDefaults(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	rec := c.do(http.MethodPost, "/game/new", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decode[gameRes](t, rec)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 10, v.Size)
	assert.Equal(t, testWords, v.Words)
	assert.Equal(t, game.StatePlaying, v.State)
	assert.Equal(t, len(testWords)-len(v.Unplaced), v.Remaining)
	assert.Empty(t, v.Placements, "answers must stay hidden while playing")
	for _, row := range v.Cells {
		for _, cell := range row {
			assert.Regexp(t, "^[A-Z]$", cell.Letter)
		}
	}
}

func TestNewGameSeedIsReproducible(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	seed := int64(42)
	req := newGameReq{Size: 8, Words: []string{"cat", "dog", "bird"}, Seed: &seed}

	a := decode[gameRes](t, c.do(http.MethodPost, "/game/new", req))
	b := decode[gameRes](t, c.do(http.MethodPost, "/game/new", req))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Letters(), b.Letters())
}

func TestNewGameRejectsBadInput(t *testing.T) {
	c := newClient(t, newTestServer(t, false))

	cases := map[string]any{
		"too small":    newGameReq{Size: 1},
		"too large":    newGameReq{Size: maxGridSize + 1},
		"short word":   newGameReq{Words: []string{"a"}},
		"digits":       newGameReq{Words: []string{"abc1"}},
		"duplicates":   newGameReq{Words: []string{"cat", "CAT"}},
		"invalid json": "not an object",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/game/new", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestUnknownGame(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	rec := c.do(http.MethodGet, "/game/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
}

func TestDragLifecycle(t *testing.T) {
	srv := newTestServer(t, false)
	c := newClient(t, srv)
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))
	sess, err := srv.store.Get(context.Background(), v.ID)
	require.NoError(t, err)
	p := sess.Placements()[0]
	first, last := p.Cells[0], p.Cells[len(p.Cells)-1]

	rec := c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "start", Row: first.Row, Col: first.Col})
	require.Equal(t, http.StatusOK, rec.Code)
	mid := decode[gameRes](t, rec)
	assert.True(t, mid.Selecting)
	assert.Nil(t, mid.Result)

	rec = c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "move", Row: last.Row, Col: last.Col})
	mid = decode[gameRes](t, rec)
	assert.Equal(t, p.Cells, mid.Selection)
	assert.Equal(t, puzzle.StateSelected, mid.Cells[last.Row][last.Col].State)

	rec = c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "end"})
	done := decode[gameRes](t, rec)
	require.NotNil(t, done.Result)
	assert.True(t, done.Result.Matched)
	assert.Equal(t, p.Word, done.Result.Word)
	assert.False(t, done.Selecting)
	assert.Contains(t, done.Found, p.Word)
	assert.Equal(t, puzzle.StateFound, done.Cells[first.Row][first.Col].State)
	assert.Equal(t, v.Remaining-1, done.Remaining)
}

func TestDragLeaveEndsSelection(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))

	c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "start", Row: 0, Col: 0})
	rec := c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "leave"})
	out := decode[gameRes](t, rec)
	require.NotNil(t, out.Result)
	assert.False(t, out.Selecting)
	assert.Empty(t, out.Selection)
}

func TestDragRejectsUnknownPhase(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))
	rec := c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "hover"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolveRevealsPlacements(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))

	last := c.solve(v.ID)
	assert.Equal(t, game.StateWon, last.State)
	assert.Equal(t, 0, last.Remaining)
	assert.NotEmpty(t, last.Placements)

	// a won game ignores further drags
	rec := c.do(http.MethodPost, "/game/"+v.ID+"/drag", dragReq{Phase: "start"})
	assert.False(t, decode[gameRes](t, rec).Selecting)
}

func TestRestart(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))
	c.solve(v.ID)

	rec := c.do(http.MethodPost, "/game/"+v.ID+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[gameRes](t, rec)
	assert.Equal(t, v.ID, out.ID)
	assert.Equal(t, game.StatePlaying, out.State)
	assert.Empty(t, out.Found)
}

func TestPrintPDF(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))

	rec := c.do(http.MethodGet, "/game/"+v.ID+"/print.pdf?answers=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestAuthRoutesNeedDatabase(t *testing.T) {
	c := newClient(t, newTestServer(t, false))
	rec := c.do(http.MethodPost, "/auth/signup", signupReq{Username: "alice", Password: "password123"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHistory(t *testing.T) {
	srv := newTestServer(t, true)
	c := newClient(t, srv)

	// a guest game is claimed on signup
	guest := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))

	rec := c.do(http.MethodPost, "/auth/signup", signupReq{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, c.cookies, srv.cfg.Auth.CookieName)

	me := decode[authUser](t, c.do(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, "alice", me.Username)

	v := decode[gameRes](t, c.do(http.MethodPost, "/game/new", nil))
	c.solve(v.ID)

	stats := decode[map[string]any](t, c.do(http.MethodGet, "/stats/me", nil))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["wins"])

	type row struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		WordsTotal int    `json:"wordsTotal"`
		WordsFound int    `json:"wordsFound"`
	}
	games := decode[[]row](t, c.do(http.MethodGet, "/games/mine", nil))
	require.Len(t, games, 2)
	byID := map[string]row{}
	for _, g := range games {
		byID[g.ID] = g
	}
	assert.Equal(t, "won", byID[v.ID].Status)
	assert.Equal(t, byID[v.ID].WordsTotal, byID[v.ID].WordsFound)
	assert.Equal(t, "playing", byID[guest.ID].Status)

	c.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil).Code)
}

func TestSignupAndLoginErrors(t *testing.T) {
	c := newClient(t, newTestServer(t, true))

	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, "/auth/signup", signupReq{Username: "al", Password: "password123"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, "/auth/signup", signupReq{Username: "alice", Password: "short"}).Code)
	assert.Equal(t, http.StatusCreated,
		c.do(http.MethodPost, "/auth/signup", signupReq{Username: "alice", Password: "password123"}).Code)
	assert.Equal(t, http.StatusConflict,
		c.do(http.MethodPost, "/auth/signup", signupReq{Username: "ALICE", Password: "password123"}).Code)

	other := newClient(t, c.srv)
	assert.Equal(t, http.StatusUnauthorized,
		other.do(http.MethodPost, "/auth/login", loginReq{Username: "alice", Password: "wrong-password"}).Code)
	assert.Equal(t, http.StatusOK,
		other.do(http.MethodPost, "/auth/login", loginReq{Username: "alice", Password: "password123"}).Code)
	assert.Equal(t, http.StatusOK, other.do(http.MethodGet, "/auth/me", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodOptions, "/game/new", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, srv.cfg.Server.ClientOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func fixDay(srv *Server) {
	srv.daily.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
}
