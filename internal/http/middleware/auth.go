package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gestaolimpeza/supervisao/internal/auth"
)

type contextKey string

// ContextKeySession guarda a sessão autenticada da requisição.
const ContextKeySession contextKey = "session"

type denylist interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

// Auth valida o token de acesso e injeta a sessão no contexto. A sessão
// nasce aqui e morre com a requisição; nenhum estado global é mantido.
func Auth(verifier *auth.Verifier, revoked denylist, adminEmails []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := verifier.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			if revoked != nil && revoked.IsRevoked(r.Context(), claims.ID) {
				writeError(w, http.StatusUnauthorized, "AUTH", "sessão encerrada")
				return
			}

			sess, err := auth.NewSession(claims, parts[1], adminEmails)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession recupera a sessão do contexto.
func GetSession(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(ContextKeySession).(*auth.Session)
	return sess
}

// RequireAdmin exige a marcação de admin da allow-list. Isso controla só a
// exibição das telas agregadas; o alcance real dos dados continua sendo
// decidido pelas políticas de linha do banco.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado")
			return
		}
		if !sess.Admin {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
