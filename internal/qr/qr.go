// Package qr renders profile links as terminal QR codes.
package qr

import (
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrEmpty is returned when there is nothing to encode.
var ErrEmpty = errors.New("qr: empty content")

// Render encodes content as a QR code drawn with Unicode half blocks. Two
// bitmap rows become one terminal line, each prefixed with indent.
func Render(content, indent string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmpty
	}
	code, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", err
	}

	bitmap := code.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString(indent)
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}
