// Package qr renders a room's join URL as a PNG QR code, grounded on
// the teacher's qrHandler (celebrity.go): derive the scheme from the
// request (honoring X-Forwarded-Proto), encode the current URL with
// skip2/go-qrcode at a mobile-friendly size.
package qr

import "github.com/skip2/go-qrcode"

// Size is the fixed pixel width/height of the generated PNG.
const Size = 320

// Encode renders joinURL as a medium-error-correction PNG QR code.
func Encode(joinURL string) ([]byte, error) {
	return qrcode.Encode(joinURL, qrcode.Medium, Size)
}
