package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenGame = errors.New("token issued for another game")

// GameClaims grant the bearer the right to make moves in one game.
type GameClaims struct {
	GameId string `json:"game_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// NewJWT signs with JWT_SECRET. Without one a random secret is used,
// which invalidates every token on restart; generated reports that case.
func NewJWT(c *App) (j *JWT, generated bool, err error) {
	secret := []byte(c.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, false, fmt.Errorf("unable to generate JWT secret: %w", err)
		}
		generated = true
	}

	j = &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: c.TokenLifetime,
	}
	return j, generated, nil
}

func (j *JWT) Sign(gameId string) (string, error) {
	now := time.Now()
	claims := &GameClaims{
		GameId: gameId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GameClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}

// Authorize checks that claims were issued for gameId.
func (c *GameClaims) Authorize(gameId string) error {
	if c == nil || c.GameId != gameId {
		return ErrTokenGame
	}
	return nil
}
