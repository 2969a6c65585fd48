package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// VCard holds the contact fields encoded into a vCard 3.0 card.
type VCard struct {
	Name  string
	Phone string
	Email string
	Group string
	Notes string
}

var vcardEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\r\n", `\n`, "\n", `\n`)

func (v VCard) String() string {
	var sb strings.Builder
	sb.WriteString("BEGIN:VCARD\r\n")
	sb.WriteString("VERSION:3.0\r\n")
	sb.WriteString("FN:" + vcardEscaper.Replace(v.Name) + "\r\n")
	sb.WriteString("N:" + vcardEscaper.Replace(v.Name) + ";;;;\r\n")
	if v.Phone != "" {
		sb.WriteString("TEL;TYPE=CELL:" + vcardEscaper.Replace(v.Phone) + "\r\n")
	}
	if v.Email != "" {
		sb.WriteString("EMAIL:" + vcardEscaper.Replace(v.Email) + "\r\n")
	}
	if v.Group != "" {
		sb.WriteString("CATEGORIES:" + vcardEscaper.Replace(v.Group) + "\r\n")
	}
	if v.Notes != "" {
		sb.WriteString("NOTE:" + vcardEscaper.Replace(v.Notes) + "\r\n")
	}
	sb.WriteString("END:VCARD\r\n")
	return sb.String()
}

// GenerateVCardPNG encodes the card as a PNG QR code. size is clamped to
// [MinSize, MaxSize]; 0 selects DefaultSize.
func GenerateVCardPNG(card VCard, size int) ([]byte, error) {
	png, err := qrcode.Encode(card.String(), qrcode.Medium, clampSize(size))
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

func GenerateVCardASCII(card VCard) (string, error) {
	qr, err := qrcode.New(card.String(), qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	bitmap := qr.Bitmap()

	var sb strings.Builder

	for i := 0; i < len(bitmap); i++ {
		for j := 0; j < len(bitmap[i]); j++ {
			if bitmap[i][j] {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func clampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}
