// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongBoard is returned when a valid seat token names a different board.
var ErrWrongBoard = errors.New("seat token is for another board")

// CookieName is the cookie a seat token is carried in.
const CookieName = "auth_token"

// SeatIssuer signs and verifies seat tokens. A seat token binds one client to one
// board session; its "sub" claim is the board id.
type SeatIssuer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// expire is how long tokens stay valid (0 => never).
	expire time.Duration
}

// NewSeatIssuer generates a fresh ed25519 key pair at runtime.
func NewSeatIssuer(expire time.Duration) (*SeatIssuer, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return &SeatIssuer{privateKey: priv, publicKey: pub, expire: expire}, nil
}

// NewSeatIssuerFromPath reads ed25519 private/public keys from file.
func NewSeatIssuerFromPath(privatePath, publicPath string, expire time.Duration) (*SeatIssuer, error) {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return &SeatIssuer{
		privateKey: ed25519.PrivateKey(privateKeyData),
		publicKey:  ed25519.PublicKey(publicKeyData),
		expire:     expire,
	}, nil
}

// CreateSeatToken signs a token for boardID.
func (s *SeatIssuer) CreateSeatToken(boardID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": boardID.String(),
		"iat": now.Unix(),
	}
	if s.expire > 0 {
		claims["exp"] = now.Add(s.expire).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// AuthenticateSeat verifies a token and returns the board id it was issued for.
func (s *SeatIssuer) AuthenticateSeat(tokenString string) (uuid.UUID, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	sub, err := t.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("missing sub in jwt")
	}
	boardID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid board id in token: %w", err)
	}
	return boardID, nil
}

// AuthorizeSeat checks that tokenString is a valid seat for boardID.
func (s *SeatIssuer) AuthorizeSeat(tokenString string, boardID uuid.UUID) error {
	got, err := s.AuthenticateSeat(tokenString)
	if err != nil {
		return err
	}
	if got != boardID {
		return ErrWrongBoard
	}
	return nil
}
