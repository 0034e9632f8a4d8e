package template

import (
	"bytes"
	"fmt"
	"image/png"

	"instapic-ticketing/internal/catalog"
	"instapic-ticketing/internal/models"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// pageA6 is A6 in points; gopdf only ships sizes down to A5.
var pageA6 = gopdf.Rect{W: 297.64, H: 419.53}

// TicketPDFGenerator renders the printable voucher an attendee brings to the
// Mirror: the code in large type, the package contents and the QR code.
type TicketPDFGenerator struct {
	siteName string
}

func NewTicketPDFGenerator(siteName string) *TicketPDFGenerator {
	return &TicketPDFGenerator{siteName: siteName}
}

// Generate builds an A6 voucher. pkg may be nil when the package was removed
// from the catalog; qrCode may be empty.
func (g *TicketPDFGenerator) Generate(ticket models.Ticket, pkg *catalog.Package, qrCode []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: pageA6})
	pdf.AddPage()

	if err := pdf.AddTTFFontData("go", goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if err := pdf.AddTTFFontData("go-bold", gobold.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	if err := g.addHeader(pdf); err != nil {
		return nil, err
	}
	if err := addCode(pdf, ticket.TicketCode); err != nil {
		return nil, err
	}
	if err := addTicketInfo(pdf, ticket, pkg); err != nil {
		return nil, err
	}
	if len(qrCode) > 0 {
		addQRCode(pdf, qrCode)
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *TicketPDFGenerator) addHeader(pdf *gopdf.GoPdf) error {
	if err := pdf.SetFont("go-bold", "", 16); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(20, 24)
	return pdf.Cell(nil, g.siteName+" photo ticket")
}

func addCode(pdf *gopdf.GoPdf, code string) error {
	if err := pdf.SetFont("go-bold", "", 36); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(20, 52)
	return pdf.Cell(nil, code)
}

func addTicketInfo(pdf *gopdf.GoPdf, ticket models.Ticket, pkg *catalog.Package) error {
	if err := pdf.SetFont("go", "", 10); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}

	packageName := ticket.PackageID
	if pkg != nil {
		packageName = pkg.Name
	}
	lines := []string{
		"Package: " + packageName,
		"Event: " + ticket.EventCode,
		"Status: " + string(ticket.Status),
		"Issued: " + ticket.CreatedAt.Format("2006-01-02 15:04"),
	}
	if pkg != nil {
		lines = append(lines, fmt.Sprintf("Prints: %d", pkg.Prints))
		if pkg.GIF {
			lines = append(lines, "Includes GIF")
		}
		if pkg.Boomerang {
			lines = append(lines, "Includes boomerang")
		}
		if pkg.DigitalAccess {
			lines = append(lines, "Includes digital copies")
		}
	}

	pdf.SetXY(20, 100)
	for _, line := range lines {
		pdf.SetX(20)
		if err := pdf.Cell(nil, line); err != nil {
			return err
		}
		pdf.Br(14)
	}
	return nil
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) {
	img, err := png.Decode(bytes.NewReader(qrCode))
	if err != nil {
		pdf.SetX(20)
		pdf.Cell(nil, "QR code unavailable, enter the code at the Mirror")
		return
	}

	rect := &gopdf.Rect{W: 110, H: 110}
	if err := pdf.ImageFrom(img, 20, pdf.GetY()+8, rect); err != nil {
		pdf.SetX(20)
		pdf.Cell(nil, "QR code unavailable, enter the code at the Mirror")
	}
}
