package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
)

// GoTrueClient encapsula chamadas ao serviço de autenticação hospedado.
// Contas, senhas e sessões vivem inteiramente no serviço; aqui só
// repassamos credenciais e tokens.
type GoTrueClient struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

// GoTrueConfig descreve o endpoint e a chave pública do projeto.
type GoTrueConfig struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

// NewGoTrueClient cria um novo cliente para o endpoint configurado.
func NewGoTrueClient(cfg GoTrueConfig) (*GoTrueClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("auth: endpoint obrigatório")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &GoTrueClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		anonKey:    strings.TrimSpace(cfg.AnonKey),
	}, nil
}

// User identifica uma conta no serviço de autenticação.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// TokenResponse é o retorno de um login por senha.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// SignUp cria uma nova conta de supervisor.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var payload struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		User  *User     `json:"user"`
	}
	if err := c.post(ctx, "/signup", "", body, &payload); err != nil {
		return nil, err
	}

	// Dependendo da configuração do serviço o usuário vem na raiz ou
	// aninhado junto da sessão.
	if payload.User != nil {
		return payload.User, nil
	}
	return &User{ID: payload.ID, Email: payload.Email}, nil
}

// SignInWithPassword autentica com e-mail e senha e retorna o token de
// acesso que escopa as consultas subsequentes.
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var token TokenResponse
	if err := c.post(ctx, "/token?grant_type=password", "", body, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &token, nil
}

// SignOut encerra a sessão no serviço. Chamadores tratam falhas como
// não-fatais: a sessão local é descartada de qualquer forma.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/logout", accessToken, nil, nil)
}

func (c *GoTrueClient) post(ctx context.Context, path, bearer string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var apiErr struct {
		Message     string `json:"msg"`
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}

	message := apiErr.Message
	if message == "" {
		message = apiErr.Description
	}
	if message == "" {
		message = apiErr.Error
	}
	if message == "" {
		return fmt.Errorf("auth: status %d", resp.StatusCode)
	}
	return fmt.Errorf("auth: %s", message)
}
