package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims representa as informações presentes em um token de acesso emitido
// pelo serviço de autenticação hospedado.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier valida tokens de acesso HS256 com o segredo do projeto.
// Nenhuma renovação é feita aqui: token expirado exige novo login.
type Verifier struct {
	secret []byte
}

// NewVerifier cria o validador com o segredo configurado.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ParseAndValidate verifica assinatura e expiração.
func (v *Verifier) ParseAndValidate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}

	return claims, nil
}
