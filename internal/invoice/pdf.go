package invoice

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/shoppee/shoppee-backend/internal/orders"
)

// ErrNotReady means the order has not reached paid+delivered.
var ErrNotReady = errors.New("invoice available only after payment and delivery")

// Render writes the invoice PDF for a paid and delivered order.
func Render(w io.Writer, o *orders.Order) error {
	if o.PaymentStatus != orders.PaymentPaid || o.OrderStatus != orders.StatusDelivered {
		return ErrNotReady
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(120, 5, "Order Id : "+o.ID, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 5, "Shoppee.", "", 1, "R", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(120, 8, "Invoice #"+o.InvoiceID, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(164, 164, 164)
	pdf.CellFormat(0, 8, o.CreatedAt.Format("January 2, 2006"), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	// Bill-to block
	addr := o.ShippingAddress
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, "BILL TO", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, addr.FullName+",", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	line := addr.AddressLine1 + ", " + addr.City
	if addr.State != "" {
		line += ", " + addr.State
	}
	pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, addr.Country, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Item table
	colW := []float64{10, 84, 20, 30, 30}
	head := []string{"#", "Item", "Qty", "Price", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range head {
		pdf.CellFormat(colW[i], 7, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, it := range o.Items {
		unit := it.Price / float64(it.Quantity)
		pdf.CellFormat(colW[0], 6, fmt.Sprintf("%d", i+1), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, it.Name, "B", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 6, fmt.Sprintf("%d", it.Quantity), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 6, fmt.Sprintf("%.2f", unit), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 6, fmt.Sprintf("%.2f", it.Price), "B", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Totals
	subtotal := o.TotalPrice - o.ShippingPrice
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", subtotal},
		{"Shipping Charges", o.ShippingPrice},
		{"Total", o.TotalPrice},
	}
	for _, t := range totals {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(99, 99, 99)
		pdf.CellFormat(114, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, t.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", t.value), "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

// Filename is the attachment name for an order's invoice download.
func Filename(o *orders.Order) string {
	return fmt.Sprintf("invoice-%s.pdf", o.InvoiceID)
}
