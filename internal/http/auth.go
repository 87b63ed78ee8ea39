package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/util"
)

type gotrueClient interface {
	SignUp(ctx context.Context, email, password string) (*auth.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.TokenResponse, error)
	SignOut(ctx context.Context, accessToken string) error
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthHandler repassa credenciais ao serviço de autenticação hospedado.
type AuthHandler struct {
	gotrue      gotrueClient
	denylist    tokenRevoker
	adminEmails []string
}

func NewAuthHandler(gotrue gotrueClient, denylist tokenRevoker, adminEmails []string) *AuthHandler {
	return &AuthHandler{gotrue: gotrue, denylist: denylist, adminEmails: adminEmails}
}

type credentialsPayload struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// HandleSignUp cria uma conta de supervisor. Não inicia sessão: o login é
// um passo separado.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := validateCredentials(payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados inválidos", err)
		return
	}

	user, err := h.gotrue.SignUp(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)), payload.Senha)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"usuario": user})
}

// HandleLogin autentica e devolve o token de acesso que escopa as
// consultas seguintes.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := validateCredentials(payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados inválidos", err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	token, err := h.gotrue.SignInWithPassword(r.Context(), email, payload.Senha)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_in":   token.ExpiresIn,
		"usuario":      token.User,
		"admin":        isAdminEmail(h.adminEmails, token.User.Email),
	})
}

// HandleLogout encerra a sessão. As chamadas externas são melhor-esforço:
// a sessão do chamador termina aqui de qualquer forma.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	if sess == nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	if err := h.denylist.Revoke(r.Context(), sess.TokenID, sess.ExpiresAt); err != nil {
		log.Warn().Err(err).Msg("logout: falha ao revogar token")
	}
	if err := h.gotrue.SignOut(r.Context(), sess.AccessToken); err != nil {
		log.Warn().Err(err).Msg("logout: falha ao encerrar sessão no backend")
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "SESSAO_ENCERRADA"})
}

// HandleMe ecoa a sessão corrente, incluindo a dica de admin usada pela
// interface.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	if sess == nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "não autenticado", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"id":    sess.UserID,
		"email": sess.Email,
		"admin": sess.Admin,
	})
}

func validateCredentials(payload credentialsPayload) util.FieldErrors {
	errs := util.FieldErrors{}
	if err := util.ValidateEmail(payload.Email); err != nil {
		errs["email"] = err.Error()
	}
	if err := util.ValidatePassword(payload.Senha); err != nil {
		errs["senha"] = err.Error()
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isAdminEmail(adminEmails []string, email string) bool {
	for _, admin := range adminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func handleAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		WriteError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas", nil)
		return
	}
	log.Error().Err(err).Msg("auth handler error")
	WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
}
