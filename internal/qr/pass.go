// Package qr issues and verifies scannable attendance passes. A pass binds
// one worker to one job and is signed so a check-in kiosk can verify it
// offline with the shared secret.
package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const passVersion = "v1"

var (
	ErrMalformedPass  = errors.New("malformed attendance pass")
	ErrBadSignature   = errors.New("attendance pass signature mismatch")
	ErrUnknownVersion = errors.New("unsupported attendance pass version")
	ErrEmptySecret    = errors.New("pass secret must not be empty")
)

// Pass identifies the (job, worker) pairing encoded in a scanned code.
type Pass struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
}

// Signer issues and verifies passes with a shared HMAC-SHA256 secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

func (s *Signer) signature(jobID, workerID uuid.UUID) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%s:%s", passVersion, jobID, workerID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Encode produces the pass payload "v1:<jobID>:<workerID>:<hmac>".
func (s *Signer) Encode(jobID, workerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s:%s", passVersion, jobID, workerID, s.signature(jobID, workerID))
}

// Decode parses and verifies a scanned payload. The signature check is
// constant time.
func (s *Signer) Decode(payload string) (*Pass, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 4 {
		return nil, ErrMalformedPass
	}
	if parts[0] != passVersion {
		return nil, ErrUnknownVersion
	}
	jobID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, ErrMalformedPass
	}
	workerID, err := uuid.Parse(parts[2])
	if err != nil {
		return nil, ErrMalformedPass
	}
	if !hmac.Equal([]byte(parts[3]), []byte(s.signature(jobID, workerID))) {
		return nil, ErrBadSignature
	}
	return &Pass{JobID: jobID, WorkerID: workerID}, nil
}

// PNG renders the pass as a QR code image suitable for the worker's
// phone screen.
func (s *Signer) PNG(jobID, workerID uuid.UUID, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(s.Encode(jobID, workerID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("render attendance pass: %w", err)
	}
	return png, nil
}
