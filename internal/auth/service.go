// Package auth issues edit keys and scene-scoped access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/inamate/shapes-go/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	store     store.Store
	jwtSecret []byte
	ttl       time.Duration

	// Cost is the bcrypt cost used for new edit keys.
	Cost int
}

func NewService(st store.Store, jwtSecret string, ttl time.Duration) *Service {
	return &Service{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		Cost:      12,
	}
}

type TokenResult struct {
	Token     string    `json:"token"`
	SceneID   string    `json:"sceneId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewEditKey returns a random edit key and its bcrypt hash. Only the hash
// is stored.
func (s *Service) NewEditKey() (key, hash string, err error) {
	key = uuid.NewString()
	h, err := bcrypt.GenerateFromPassword([]byte(key), s.Cost)
	if err != nil {
		return "", "", fmt.Errorf("hash edit key: %w", err)
	}
	return key, string(h), nil
}

func (s *Service) CheckKey(hash, key string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login exchanges a scene's edit key for a token.
func (s *Service) Login(ctx context.Context, sceneID, key string) (*TokenResult, error) {
	sc, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get scene: %w", err)
	}
	if err := s.CheckKey(sc.EditKeyHash, key); err != nil {
		return nil, err
	}
	return s.IssueToken(sc.ID)
}

func (s *Service) IssueToken(sceneID string) (*TokenResult, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub": sceneID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenResult{Token: signed, SceneID: sceneID, ExpiresAt: time.Unix(exp.Unix(), 0).UTC()}, nil
}

// ValidateToken returns the scene ID the token grants edit access to.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sceneID, ok := claims["sub"].(string)
	if !ok || sceneID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sceneID, nil
}
