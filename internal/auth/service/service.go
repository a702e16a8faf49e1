package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/goserg/guildrating/internal/elo"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
	ErrTokenExpired  = errors.New("token expired")
)

// Service issues and checks operator tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

type claims struct {
	jwt.StandardClaims
	Roles []string `json:"roles"`
}

func New(cfg Config) (*Service, error) {
	if cfg.Token == "" {
		return nil, errors.New("empty token secret")
	}
	if _, err := time.ParseDuration(cfg.Expiration); err != nil {
		return nil, fmt.Errorf("expiration: %w", err)
	}
	return &Service{
		cfg: cfg,
		now: time.Now,
	}, nil
}

// Issue signs a token for operatorID carrying roles.
func (s *Service) Issue(operatorID string, roles []string) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.Expiration)
	if err != nil {
		return "", time.Time{}, err
	}
	now := s.now()
	expirationTime := now.Add(expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    s.cfg.Issuer,
			Subject:   operatorID,
		},
		Roles: roles,
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// Parse validates tokenString and returns the operator it was issued for.
func (s *Service) Parse(tokenString string) (elo.Actor, error) {
	if tokenString == "" {
		return elo.Actor{}, ErrNotAuthorized
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.Token), nil
	})
	if err != nil {
		ve := &jwt.ValidationError{}
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return elo.Actor{}, ErrTokenExpired
		}
		return elo.Actor{}, fmt.Errorf("%w: %v", ErrNotAuthorized, err)
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return elo.Actor{}, ErrNotAuthorized
	}
	if s.cfg.Issuer != "" && !c.VerifyIssuer(s.cfg.Issuer, true) {
		return elo.Actor{}, ErrNotAuthorized
	}
	return elo.Actor{
		ID:    c.Subject,
		Roles: c.Roles,
	}, nil
}

// Authorize parses tokenString and checks that the operator may change
// ratings.
func (s *Service) Authorize(tokenString string, perms elo.Permissions) (elo.Actor, error) {
	actor, err := s.Parse(tokenString)
	if err != nil {
		return elo.Actor{}, err
	}
	if !elo.HasRatingPermission(actor, perms) {
		return elo.Actor{}, ErrForbidden
	}
	return actor, nil
}
