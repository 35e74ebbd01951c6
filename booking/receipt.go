package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/models"
)

// Receipts renders signed booking receipts.
type Receipts struct {
	key []byte
	now func() time.Time
}

func NewReceipts(secret string) *Receipts {
	return &Receipts{key: []byte(secret), now: time.Now}
}

// Payload returns bookingID|userID|issued|signature for the receipt QR code.
func (rc *Receipts) Payload(b *models.BookingWithPlace) string {
	data := fmt.Sprintf("%s|%s|%d", b.ID.Hex(), b.User.Hex(), rc.now().Unix())
	return data + "|" + rc.sign(data)
}

// Verify checks a QR payload and returns the booking and user ids it was
// issued for. Receipts do not expire.
func (rc *Receipts) Verify(payload string) (bookingID, userID string, err error) {
	parts := strings.Split(strings.TrimSpace(payload), "|")
	if len(parts) != 4 {
		return "", "", invalidReceipt(errors.New("invalid receipt format"))
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", "", invalidReceipt(errors.New("invalid timestamp"))
	}
	data := strings.Join(parts[:3], "|")
	if !hmac.Equal([]byte(parts[3]), []byte(rc.sign(data))) {
		return "", "", invalidReceipt(errors.New("invalid signature"))
	}
	return parts[0], parts[1], nil
}

func invalidReceipt(err error) error {
	return apperr.Wrap(apperr.ValidationFailure, "Invalid receipt", err)
}

func (rc *Receipts) sign(data string) string {
	h := hmac.New(sha256.New, rc.key)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Render produces a one-page PDF receipt.
func (rc *Receipts) Render(b *models.BookingWithPlace) ([]byte, error) {
	qrPNG, err := qrcode.Encode(rc.Payload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	title, address := "Unknown place", ""
	if b.Place != nil {
		title, address = b.Place.Title, b.Place.Address
	}
	nights := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Booking "+b.ID.Hex(), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Booking Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, tr(address))
	pdf.Ln(12)

	rows := [][2]string{
		{"Booking", b.ID.Hex()},
		{"Guest", b.Name},
		{"Phone", b.Phone},
		{"Check-in", b.CheckIn.Format("Mon, 02 Jan 2006")},
		{"Check-out", b.CheckOut.Format("Mon, 02 Jan 2006")},
		{"Nights", strconv.Itoa(nights)},
		{"Guests", strconv.Itoa(b.NumberOfGuests)},
		{"Total", fmt.Sprintf("%.2f", b.Price)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
