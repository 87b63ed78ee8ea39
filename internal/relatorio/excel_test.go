package relatorio

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestFormatTimestamp(t *testing.T) {
	// 2026-03-10 18:30 UTC é 15:30 em São Paulo.
	utc := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(utc); got != "10/03/2026 15:30" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
}

func TestFuncionariosXLSX(t *testing.T) {
	criado := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	linhas := []LinhaFuncionario{
		{
			Nome:         "Carlos Souza",
			CPF:          "12345678909",
			Escola:       "Escola Central",
			Cargo:        "Líder",
			Situacao:     "Trabalhando",
			Supervisor:   "supervisor@x.com",
			CriadoEm:     criado,
			AtualizadoEm: criado.Add(time.Hour),
		},
		{
			Nome:       "Beatriz Lima",
			CPF:        "98765432100",
			Escola:     "Escola Norte",
			Cargo:      "Agente de Higiene",
			Situacao:   "Abandono",
			Supervisor: "supervisor@x.com",
		},
	}

	conteudo, err := FuncionariosXLSX(linhas)
	if err != nil {
		t.Fatalf("FuncionariosXLSX: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		t.Fatalf("abrir planilha: %v", err)
	}
	defer func() { _ = file.Close() }()

	if sheets := file.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetFuncionarios {
		t.Fatalf("abas inesperadas: %v", sheets)
	}

	rows, err := file.GetRows(SheetFuncionarios)
	if err != nil {
		t.Fatalf("ler linhas: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("esperado cabeçalho + 2 linhas, veio %d", len(rows))
	}

	if rows[0][0] != "Nome" || rows[0][4] != "Situação" || rows[0][6] != "Criado em" {
		t.Fatalf("cabeçalho inesperado: %v", rows[0])
	}
	if rows[1][0] != "Carlos Souza" || rows[1][3] != "Líder" {
		t.Fatalf("primeira linha inesperada: %v", rows[1])
	}
	// 12:00 UTC vira 09:00 no fuso de exibição.
	if rows[1][6] != "02/01/2026 09:00" {
		t.Fatalf("timestamp não convertido: %q", rows[1][6])
	}
	if rows[2][0] != "Beatriz Lima" || rows[2][4] != "Abandono" {
		t.Fatalf("segunda linha inesperada: %v", rows[2])
	}
}

func TestFuncionariosXLSXVazio(t *testing.T) {
	conteudo, err := FuncionariosXLSX(nil)
	if err != nil {
		t.Fatalf("FuncionariosXLSX: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		t.Fatalf("abrir planilha: %v", err)
	}
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(SheetFuncionarios)
	if err != nil {
		t.Fatalf("ler linhas: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("conjunto vazio deveria ter só o cabeçalho, veio %d linhas", len(rows))
	}
}
