package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "um-segredo-de-teste-com-32-bytes!"

func mintToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("assinar token: %v", err)
	}
	return signed
}

func validClaims(sub uuid.UUID) Claims {
	return Claims{
		Email: "Supervisor@X.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestParseAndValidate(t *testing.T) {
	verifier := NewVerifier(testSecret)
	sub := uuid.New()

	token := mintToken(t, testSecret, validClaims(sub))
	claims, err := verifier.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("token válido rejeitado: %v", err)
	}
	if claims.Subject != sub.String() {
		t.Fatalf("subject inesperado: %q", claims.Subject)
	}
	if claims.Email != "Supervisor@X.com" {
		t.Fatalf("email inesperado: %q", claims.Email)
	}
}

func TestParseAndValidateExpirado(t *testing.T) {
	verifier := NewVerifier(testSecret)

	claims := validClaims(uuid.New())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	if _, err := verifier.ParseAndValidate(mintToken(t, testSecret, claims)); err == nil {
		t.Fatal("token expirado aceito")
	}
}

func TestParseAndValidateSegredoErrado(t *testing.T) {
	verifier := NewVerifier(testSecret)

	token := mintToken(t, "outro-segredo-completamente-diferente", validClaims(uuid.New()))
	if _, err := verifier.ParseAndValidate(token); err == nil {
		t.Fatal("assinatura inválida aceita")
	}
}

func TestParseAndValidateAlgoritmoErrado(t *testing.T) {
	verifier := NewVerifier(testSecret)

	// alg=none não passa pela lista de métodos válidos.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(uuid.New()))
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("assinar token: %v", err)
	}
	if _, err := verifier.ParseAndValidate(signed); err == nil {
		t.Fatal("alg none aceito")
	}
}

func TestNewSession(t *testing.T) {
	sub := uuid.New()
	claims := validClaims(sub)

	sess, err := NewSession(&claims, "token-bruto", []string{"supervisor@x.com"})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if sess.UserID != sub {
		t.Fatalf("user id inesperado: %v", sess.UserID)
	}
	if sess.Email != "supervisor@x.com" {
		t.Fatalf("email não normalizado: %q", sess.Email)
	}
	if !sess.Admin {
		t.Fatal("allow-list não marcou admin")
	}
	if sess.TokenID != claims.ID {
		t.Fatalf("jti perdido: %q", sess.TokenID)
	}

	comum, err := NewSession(&claims, "token-bruto", nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if comum.Admin {
		t.Fatal("sessão sem allow-list não deveria ser admin")
	}
}

func TestNewSessionSubjectInvalido(t *testing.T) {
	claims := validClaims(uuid.New())
	claims.Subject = "não-é-uuid"

	if _, err := NewSession(&claims, "token", nil); err == nil {
		t.Fatal("subject inválido aceito")
	}
}

func TestClaimsJSON(t *testing.T) {
	sub := uuid.New()
	sess := &Session{UserID: sub, Email: "supervisor@x.com"}

	got := sess.ClaimsJSON()
	want := `{"email":"supervisor@x.com","role":"authenticated","sub":"` + sub.String() + `"}`
	if got != want {
		t.Fatalf("claims JSON inesperado:\n got %s\nwant %s", got, want)
	}
}
