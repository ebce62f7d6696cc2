package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
)

// Service decodes the access tokens issued by the account subsystem and,
// for tests and tooling, can mint compatible ones.
type Service interface {
	NewToken(actor domain.Actor) (string, error)
	DecodeActor(jwtStr string) (domain.Actor, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(actor domain.Actor) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = actor.Id
	claims["admin"] = actor.Admin
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("token signing failed", "error", err)
		return "", errors.New("can't create token")
	}
	return tokenString, nil
}

// DecodeActor validates the token and maps its claims onto an Actor.
func (j *Jwt) DecodeActor(jwtStr string) (domain.Actor, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.AuthRequired("Unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, apperr.AuthRequired("Invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, apperr.AuthRequired("Invalid access token")
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return domain.Actor{}, apperr.AuthRequired("Invalid access token")
	}
	admin, _ := claims["admin"].(bool)

	return domain.Actor{Id: int64(uid), Admin: admin}, nil
}
