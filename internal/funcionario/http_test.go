package funcionario

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/escola"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/relatorio"
)

type stubRepo struct {
	registros map[uuid.UUID]*Funcionario
	deletes   int
}

func newStubRepo() *stubRepo {
	return &stubRepo{registros: make(map[uuid.UUID]*Funcionario)}
}

func (s *stubRepo) ListFuncionarios(ctx context.Context, sess *auth.Session) ([]Funcionario, error) {
	var out []Funcionario
	for _, f := range s.registros {
		out = append(out, *f)
	}
	return out, nil
}

func (s *stubRepo) GetFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) (*Funcionario, error) {
	f, ok := s.registros[id]
	if !ok {
		return nil, ErrNotFound
	}
	copia := *f
	return &copia, nil
}

func (s *stubRepo) CreateFuncionario(ctx context.Context, sess *auth.Session, input CreateInput) (*Funcionario, error) {
	now := time.Now().UTC()
	f := &Funcionario{
		ID:        uuid.New(),
		UserID:    sess.UserID,
		UserEmail: sess.Email,
		Nome:      input.Nome,
		CPF:       input.CPF,
		EscolaID:  input.EscolaID,
		Cargo:     input.Cargo,
		Situacao:  input.Situacao,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.registros[f.ID] = f
	copia := *f
	return &copia, nil
}

func (s *stubRepo) UpdateFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID, input UpdateInput) (*Funcionario, error) {
	f, ok := s.registros[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Nome != nil {
		f.Nome = *input.Nome
	}
	if input.CPF != nil {
		f.CPF = *input.CPF
	}
	if input.EscolaID != nil {
		f.EscolaID = *input.EscolaID
	}
	if input.Cargo != nil {
		f.Cargo = *input.Cargo
	}
	if input.Situacao != nil {
		f.Situacao = *input.Situacao
	}
	f.UpdatedAt = f.UpdatedAt.Add(time.Second)
	copia := *f
	return &copia, nil
}

func (s *stubRepo) DeleteFuncionario(ctx context.Context, sess *auth.Session, id uuid.UUID) error {
	delete(s.registros, id)
	s.deletes++
	return nil
}

type stubEscolas struct{}

func (stubEscolas) ListEscolas(ctx context.Context, sess *auth.Session) ([]escola.Escola, error) {
	return []escola.Escola{{ID: 1, Nome: "Escola Central"}, {ID: 2, Nome: "Escola Norte"}}, nil
}

func newTestRouter(repo Repository) chi.Router {
	handler := NewHandler(NewService(repo), stubEscolas{})
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func withAuth(req *http.Request) *http.Request {
	sess := &auth.Session{
		UserID: uuid.New(),
		Email:  "supervisor@x.com",
	}
	ctx := context.WithValue(req.Context(), httpmiddleware.ContextKeySession, sess)
	return req.WithContext(ctx)
}

func doRequest(t *testing.T, r chi.Router, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if authed {
		req = withAuth(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeFuncionario(t *testing.T, rec *httptest.ResponseRecorder) Funcionario {
	t.Helper()
	var envelope struct {
		Data struct {
			Funcionario Funcionario `json:"funcionario"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Data.Funcionario
}

func TestCreateNormalizaCPF(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	payload := map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "123.456.789-09",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}
	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", payload, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("esperado 201, veio %d: %s", rec.Code, rec.Body.String())
	}

	criado := decodeFuncionario(t, rec)
	if criado.CPF != "12345678909" {
		t.Fatalf("CPF não normalizado: %q", criado.CPF)
	}
	if criado.ID == uuid.Nil || criado.CreatedAt.IsZero() || criado.UpdatedAt.IsZero() {
		t.Fatalf("campos gerados ausentes: %+v", criado)
	}
	if criado.UserEmail != "supervisor@x.com" {
		t.Fatalf("dono não carimbado: %q", criado.UserEmail)
	}

	list := doRequest(t, r, http.MethodGet, "/funcionarios/", nil, true)
	if list.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d", list.Code)
	}
	var envelope struct {
		Data Lista `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode lista: %v", err)
	}
	if envelope.Data.Resumo.Total != 1 || envelope.Data.Resumo.Trabalhando != 1 {
		t.Fatalf("resumo inesperado: %+v", envelope.Data.Resumo)
	}
	if len(envelope.Data.Funcionarios) != 1 || envelope.Data.Funcionarios[0].Nome != "Carlos Souza" {
		t.Fatalf("lista inesperada: %+v", envelope.Data.Funcionarios)
	}
}

func TestCreateValidacao(t *testing.T) {
	r := newTestRouter(newStubRepo())

	payload := map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "123",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}
	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", payload, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperado 400, veio %d", rec.Code)
	}
}

func TestUpdateParcialPreservaCampos(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "12345678909",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}, true)
	criado := decodeFuncionario(t, rec)

	upd := doRequest(t, r, http.MethodPatch, "/funcionarios/"+criado.ID.String(), map[string]any{
		"situacao": SituacaoAbandono,
	}, true)
	if upd.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d: %s", upd.Code, upd.Body.String())
	}

	atualizado := decodeFuncionario(t, upd)
	if atualizado.Situacao != SituacaoAbandono {
		t.Fatalf("situação não atualizada: %q", atualizado.Situacao)
	}
	if atualizado.Nome != criado.Nome || atualizado.CPF != criado.CPF || atualizado.EscolaID != criado.EscolaID || atualizado.Cargo != criado.Cargo {
		t.Fatalf("campos não informados foram alterados: %+v", atualizado)
	}
	if !atualizado.UpdatedAt.After(criado.UpdatedAt) {
		t.Fatalf("updated_at não avançou: %v -> %v", criado.UpdatedAt, atualizado.UpdatedAt)
	}
}

func TestUpdateSemCampos(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "12345678909",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}, true)
	criado := decodeFuncionario(t, rec)

	upd := doRequest(t, r, http.MethodPatch, "/funcionarios/"+criado.ID.String(), map[string]any{}, true)
	if upd.Code != http.StatusBadRequest {
		t.Fatalf("esperado 400, veio %d", upd.Code)
	}
}

func TestToggleSituacaoEndpoint(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "12345678909",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}, true)
	criado := decodeFuncionario(t, rec)

	tog := doRequest(t, r, http.MethodPost, "/funcionarios/"+criado.ID.String()+"/situacao", nil, true)
	if tog.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d", tog.Code)
	}
	alternado := decodeFuncionario(t, tog)
	if alternado.Situacao != SituacaoAbandono {
		t.Fatalf("esperado %q, veio %q", SituacaoAbandono, alternado.Situacao)
	}
	if !alternado.UpdatedAt.After(criado.UpdatedAt) {
		t.Fatal("updated_at não avançou no toggle")
	}

	volta := doRequest(t, r, http.MethodPost, "/funcionarios/"+criado.ID.String()+"/situacao", nil, true)
	if decodeFuncionario(t, volta).Situacao != SituacaoTrabalhando {
		t.Fatal("toggle não voltou ao estado original")
	}
}

func TestDeleteIdempotente(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	rec := doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "12345678909",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}, true)
	criado := decodeFuncionario(t, rec)

	primeira := doRequest(t, r, http.MethodDelete, "/funcionarios/"+criado.ID.String(), nil, true)
	if primeira.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d", primeira.Code)
	}
	segunda := doRequest(t, r, http.MethodDelete, "/funcionarios/"+criado.ID.String(), nil, true)
	if segunda.Code != http.StatusOK {
		t.Fatalf("segunda exclusão deveria ser aceita, veio %d", segunda.Code)
	}
	if repo.deletes != 2 {
		t.Fatalf("esperado 2 exclusões, veio %d", repo.deletes)
	}
}

func TestSemSessao(t *testing.T) {
	r := newTestRouter(newStubRepo())

	rec := doRequest(t, r, http.MethodGet, "/funcionarios/", nil, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("esperado 401, veio %d", rec.Code)
	}
}

func TestExportFiltrado(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Carlos Souza",
		"cpf":       "123.456.789-09",
		"escola_id": 1,
		"cargo":     CargoLider,
		"situacao":  SituacaoTrabalhando,
	}, true)
	doRequest(t, r, http.MethodPost, "/funcionarios/", map[string]any{
		"nome":      "Beatriz Lima",
		"cpf":       "98765432100",
		"escola_id": 2,
		"cargo":     CargoAgenteHigiene,
		"situacao":  SituacaoAbandono,
	}, true)

	rec := doRequest(t, r, http.MethodGet, "/funcionarios/export?nome=carlos", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("esperado 200, veio %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content-type inesperado: %q", ct)
	}

	file, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("abrir planilha: %v", err)
	}
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(relatorio.SheetFuncionarios)
	if err != nil {
		t.Fatalf("ler linhas: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("esperado cabeçalho + 1 linha, veio %d", len(rows))
	}
	if rows[1][0] != "Carlos Souza" || rows[1][1] != "12345678909" || rows[1][2] != "Escola Central" {
		t.Fatalf("linha exportada inesperada: %v", rows[1])
	}
}
