package auth

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotAuthenticated indica escrita sem sessão ativa.
	ErrNotAuthenticated = errors.New("não autenticado")
)

// Session representa o principal autenticado durante uma requisição.
// Admin é apenas uma dica de exibição derivada da allow-list; o escopo real
// dos dados é decidido pelas políticas de linha do banco.
type Session struct {
	UserID      uuid.UUID
	Email       string
	Admin       bool
	AccessToken string
	TokenID     string
	ExpiresAt   time.Time
}

// NewSession monta a sessão a partir das claims validadas do token.
func NewSession(claims *Claims, accessToken string, adminEmails []string) (*Session, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("subject inválido no token")
	}

	sess := &Session{
		UserID:      userID,
		Email:       strings.ToLower(strings.TrimSpace(claims.Email)),
		AccessToken: accessToken,
		TokenID:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	for _, email := range adminEmails {
		if strings.EqualFold(email, sess.Email) {
			sess.Admin = true
			break
		}
	}
	return sess, nil
}

// ClaimsJSON serializa as claims no formato esperado por
// request.jwt.claims, para que as políticas de linha enxerguem o chamador.
func (s *Session) ClaimsJSON() string {
	payload, _ := json.Marshal(map[string]string{
		"sub":   s.UserID.String(),
		"email": s.Email,
		"role":  "authenticated",
	})
	return string(payload)
}
