package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("inner"), mark("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/game?width=3", nil))

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"uri":"/game?width=3"`)
}

func TestAuth(t *testing.T) {
	log := logrus.New()
	j, _, err := config.NewJWT(&config.App{JWTSecret: "test", TokenLifetime: time.Hour})
	require.NoError(t, err)
	token, err := j.Sign("abc")
	require.NoError(t, err)

	var got *config.GameClaims
	h := Auth(log, j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GameClaims(r.Context())
	}))

	tests := []struct {
		name   string
		req    func() *http.Request
		gameId string
	}{
		{
			name: "bearer header",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/game/abc/reveal", nil)
				r.Header.Set("Authorization", "Bearer "+token)
				return r
			},
			gameId: "abc",
		},
		{
			name: "query parameter",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/game/abc/connect?token="+token, nil)
			},
			gameId: "abc",
		},
		{
			name: "garbage token",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/game/abc/reveal", nil)
				r.Header.Set("Authorization", "Bearer nope")
				return r
			},
		},
		{
			name: "no token",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/game/abc", nil)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got = nil
			h.ServeHTTP(httptest.NewRecorder(), test.req())
			if test.gameId == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, test.gameId, got.GameId)
		})
	}
}

func TestCorsPreflight(t *testing.T) {
	h := Cors()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	r := httptest.NewRequest(http.MethodOptions, "/game", nil)
	r.Header.Set("Origin", "http://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRecoverKeepsStartedResponse(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	h := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late kaboom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, buf.String(), "late kaboom")
}

func TestRecoverPassesHijack(t *testing.T) {
	var hijackable bool
	h := Recover(logrus.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hijackable = w.(http.Hijacker)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hijackable)
}
