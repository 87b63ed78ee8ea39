package relatorio

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// Fuso fixo de exibição. O armazenamento é UTC; só a apresentação converte.
var fusoExibicao = time.FixedZone("America/Sao_Paulo", -3*60*60)

const (
	// SheetFuncionarios é o nome da única aba do arquivo exportado.
	SheetFuncionarios = "Funcionarios"

	// Nomes fixos de arquivo por tela.
	ArquivoSupervisao = "funcionarios_supervisao.xlsx"
	ArquivoAdmin      = "funcionarios_admin.xlsx"
)

// LinhaFuncionario é a projeção plana de um funcionário para exibição:
// rótulos no lugar de ids, dono identificado pelo e-mail.
type LinhaFuncionario struct {
	Nome         string
	CPF          string
	Escola       string
	Cargo        string
	Situacao     string
	Supervisor   string
	CriadoEm     time.Time
	AtualizadoEm time.Time
}

var cabecalho = []any{"Nome", "CPF", "Escola", "Cargo", "Situação", "Supervisor", "Criado em", "Atualizado em"}

// FuncionariosXLSX serializa o conjunto filtrado completo em uma planilha
// de aba única com cabeçalho legível.
func FuncionariosXLSX(linhas []LinhaFuncionario) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), SheetFuncionarios); err != nil {
		return nil, err
	}

	if err := file.SetSheetRow(SheetFuncionarios, "A1", &cabecalho); err != nil {
		return nil, err
	}

	for i, linha := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			linha.Nome,
			linha.CPF,
			linha.Escola,
			linha.Cargo,
			linha.Situacao,
			linha.Supervisor,
			FormatTimestamp(linha.CriadoEm),
			FormatTimestamp(linha.AtualizadoEm),
		}
		if err := file.SetSheetRow(SheetFuncionarios, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTimestamp converte do armazenamento UTC para o fuso de exibição no
// formato dd/mm/aaaa HH:MM.
func FormatTimestamp(t time.Time) string {
	return t.In(fusoExibicao).Format("02/01/2006 15:04")
}
