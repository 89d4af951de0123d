package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// MintQrToken produces the opaque token embedded in a document's QR code.
// The token is a stable pointer; workflow state is never encoded in it.
func MintQrToken() string {
	return uuid.NewString()
}

// RenderQrPNG renders the token as a PNG under dir and returns the object key
// (path relative to dir) stored on the document instance.
func RenderQrPNG(dir, token string) (string, error) {
	if err := os.MkdirAll(filepath.Join(dir, "qr"), 0o755); err != nil {
		return "", fmt.Errorf("failed to create qr directory: %w", err)
	}

	objectKey := filepath.Join("qr", token+".png")
	if err := qrcode.WriteFile(token, qrcode.Medium, 256, filepath.Join(dir, objectKey)); err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	return objectKey, nil
}
