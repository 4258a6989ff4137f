package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"premiumblog/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateStatement(data StatementData) (string, error)
}

// StatementGenerator строит PDF-выписку по аккаунту и биллингу.
type StatementGenerator struct {
	RootDir string // корень хранения, например "./files"
}

type StatementData struct {
	UserID       int
	Name         string
	Username     string
	Subscription string
	Entries      []models.BillingEntry
	GeneratedAt  time.Time
	Filename     string // имя файла (без путей); если пусто — сгенерируем
}

func NewStatementGenerator(rootDir string) *StatementGenerator {
	return &StatementGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *StatementGenerator) GenerateStatement(data StatementData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("statement_user_%d.pdf", data.UserID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Account statement #%d", data.UserID), false)
	pdf.SetAuthor("Premium Blog", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "ACCOUNT STATEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("Generated %s", data.GeneratedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	g.sectionTitle(pdf, "Account")
	g.kvLine(pdf, "Name", data.Name)
	g.kvLine(pdf, "Username", data.Username)
	g.kvLine(pdf, "Subscription", data.Subscription)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Billing history")
	if len(data.Entries) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No charges recorded for this account yet.", "", "L", false)
	} else {
		for _, e := range data.Entries {
			g.kvLine(pdf,
				e.Date.Format("02.01.2006"),
				fmt.Sprintf("%s - %s %s", e.Description, e.Amount, e.Currency),
			)
		}
	}
	pdf.Ln(2)
	g.hr(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *StatementGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *StatementGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *StatementGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}
