// Package tickets turns a booking's facts into an encrypted, authenticated
// token and a scannable QR image, and reverses the transformation.
//
// Token layout: hex(iv):hex(authTag):hex(ciphertext), AES-256-GCM with a
// 16-byte random IV per encode. The GCM tag is the sole authenticity check;
// the payload is encrypted so the QR image leaks no visitor details.
package tickets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/scrypt"
)

// ErrInvalidTicket is returned for every decode failure: malformed token,
// wrong key, tampered ciphertext or tag. Callers get no detail about which,
// so a forger cannot use decode errors as an oracle.
var ErrInvalidTicket = errors.New("invalid or tampered ticket")

const (
	ivSize    = 16
	tagSize   = 16
	kdfSalt   = "salt"
	imageSize = 256
)

// Facts are the booking details embedded in a ticket token.
type Facts struct {
	BookingNumber string `json:"bookingNumber"`
	UserName      string `json:"userName"`
	UserPhone     string `json:"userPhone"`
	TempleName    string `json:"templeName"`
	VisitDate     string `json:"visitDate"`
	TimeSlot      string `json:"timeSlot"`
	TicketCount   int    `json:"ticketCount"`
	TotalAmount   int    `json:"totalAmount"`
	IssuedAt      string `json:"timestamp"`
}

// Codec encrypts and decrypts ticket tokens with a key derived from the
// configured secret. Construct one per process and inject it; the key is
// deliberately not read from the environment here so tests and rotations
// can use distinct secrets.
type Codec struct {
	key []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("ticket secret must not be empty")
	}
	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("deriving ticket key: %w", err)
	}
	return &Codec{key: key}, nil
}

func (c *Codec) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, ivSize)
}

// Encode encrypts the facts into a token. A fresh random IV is drawn per
// call, so two encodings of the same facts never share ciphertext.
func (c *Codec) Encode(facts Facts) (string, error) {
	if facts.IssuedAt == "" {
		facts.IssuedAt = time.Now().UTC().Format(time.RFC3339)
	}

	plaintext, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("encoding ticket payload: %w", err)
	}

	gcm, err := c.aead()
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generating ticket iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	), nil
}

// Decode authenticates and decrypts a token. Any failure returns
// ErrInvalidTicket; a failed decode must never be partially trusted.
func (c *Codec) Decode(token string) (*Facts, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return nil, ErrInvalidTicket
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return nil, ErrInvalidTicket
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return nil, ErrInvalidTicket
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, ErrInvalidTicket
	}

	gcm, err := c.aead()
	if err != nil {
		return nil, ErrInvalidTicket
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, ErrInvalidTicket
	}

	var facts Facts
	if err := json.Unmarshal(plaintext, &facts); err != nil {
		return nil, ErrInvalidTicket
	}
	return &facts, nil
}

// Image renders the token as a QR PNG. Medium error correction keeps the
// code readable through minor smudging; the image carries no authenticity
// of its own, it is just a transport for the token text.
func Image(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, imageSize)
}

// ImageDataURL renders the token as a data URL suitable for embedding.
func ImageDataURL(token string) (string, error) {
	png, err := Image(token)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
