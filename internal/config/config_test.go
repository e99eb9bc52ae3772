package config

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppDefaults(t *testing.T) {
	cfg, err := NewApp()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100, cfg.MaxWidth)
	assert.False(t, cfg.Development)
}

func TestNewAppFromEnv(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DEVELOPMENT", "true")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("MAX_WIDTH", "30")

	cfg, err := NewApp()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Development)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.MaxWidth)
}

func TestNewAppRejectsBadValues(t *testing.T) {
	t.Setenv("MAX_HEIGHT", "0")
	_, err := NewApp()
	assert.Error(t, err)
}

func TestNewAppRejectsUnparsableValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	_, err := NewApp()
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	j, generated, err := NewJWT(&App{JWTSecret: "s3cret", TokenLifetime: time.Hour})
	require.NoError(t, err)
	assert.False(t, generated)

	token, err := j.Sign("game-1")
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameId)
	assert.NoError(t, claims.Authorize("game-1"))
	assert.ErrorIs(t, claims.Authorize("game-2"), ErrTokenGame)
}

func TestJWTRejectsForeignAndExpiredTokens(t *testing.T) {
	j, _, err := NewJWT(&App{JWTSecret: "one", TokenLifetime: time.Hour})
	require.NoError(t, err)
	other, generated, err := NewJWT(&App{TokenLifetime: time.Hour})
	require.NoError(t, err)
	assert.True(t, generated)

	token, err := other.Sign("game-1")
	require.NoError(t, err)
	_, err = j.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, _, err := NewJWT(&App{JWTSecret: "one", TokenLifetime: -time.Minute})
	require.NoError(t, err)
	token, err = expired.Sign("game-1")
	require.NoError(t, err)
	_, err = j.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewLoggerLevels(t *testing.T) {
	log, err := NewLogger(&App{Development: true})
	require.NoError(t, err)
	assert.Equal(t, "debug", log.GetLevel().String())

	log, err = NewLogger(&App{})
	require.NoError(t, err)
	assert.Equal(t, "info", log.GetLevel().String())
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := t.TempDir() + "/minesweeper.log"
	log, err := NewLogger(&App{LogFile: path, LogMaxSizeMB: 1})
	require.NoError(t, err)
	assert.Len(t, log.Hooks[log.GetLevel()], 1)
}
