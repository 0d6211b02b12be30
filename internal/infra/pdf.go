package infra

// pdf.go: sale receipt generation using go-pdf/fpdf.
// A7-sized receipt with header, sale reference and date, customer, the single
// product line (name, quantity, unit price, total) and the sale state.

import (
	"bytes"
	"fmt"

	"gestion/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarComprobantePDF renders the receipt of a sale in memory. The sale must
// have its Producto loaded; otherwise the product column shows the raw id.
func GenerarComprobantePDF(venta *model.Venta) ([]byte, error) {
	if venta == nil {
		return nil, fmt.Errorf("pdf: venta nil")
	}

	// A7 ≈ 74mm × 105mm, custom size since "A7" is not in fpdf's named list
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Comprobante de venta", "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr("Ref. "+venta.Referencia), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.Fecha.UTC().Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+venta.Cliente), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Line ──────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.14
	col3 := contentW * 0.40

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "P. unit.", "B", 1, "R", false, 0, "")

	nombre := venta.ProductoID.String()
	unitario := decimal.Zero
	if venta.Producto != nil {
		nombre = venta.Producto.Nombre
	}
	if venta.Cantidad > 0 {
		unitario = venta.Total.Div(decimal.NewFromInt(int64(venta.Cantidad))).Round(2)
	}
	if r := []rune(nombre); len(r) > 22 {
		nombre = string(r[:21]) + "..."
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", venta.Cantidad), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+unitario.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Estado: "+string(venta.Estado), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
