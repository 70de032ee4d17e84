package jwt

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
)

// Subject describes who a token is issued to.
type Subject struct {
	Class     domain.ActorClass
	ID        uuid.UUID
	Email     string
	CompanyID uuid.UUID
	SessionID uuid.UUID
}

type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
	issuer     string
	keyID      string
	now        func() time.Time
}

func NewTokenService(privateKeyPEM, publicKeyPEM []byte, expiry time.Duration, issuer string) (*TokenService, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	return NewTokenServiceWithKeys(privateKey, publicKey, expiry, issuer), nil
}

func NewTokenServiceWithKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, expiry time.Duration, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		expiry:     expiry,
		issuer:     issuer,
		keyID:      keyID(publicKey),
		now:        time.Now,
	}
}

// keyID derives a stable identifier from the public modulus.
func keyID(pub *rsa.PublicKey) string {
	sum := sha256.Sum256(pub.N.Bytes())
	return hex.EncodeToString(sum[:8])
}

// KeyID is the "kid" header of issued tokens.
func (s *TokenService) KeyID() string {
	return s.keyID
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// Issue signs an RS256 access token for sub.
func (s *TokenService) Issue(sub Subject) (*domain.IssuedToken, error) {
	if !sub.Class.Valid() {
		return nil, ErrInvalidToken
	}

	now := s.now()
	exp := now.Add(s.expiry)
	jti := uuid.NewString()

	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sub.ID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		ActorClass: sub.Class,
		ActorID:    sub.ID,
		Email:      sub.Email,
		CompanyID:  sub.CompanyID,
		SessionID:  sub.SessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, err
	}

	return &domain.IssuedToken{
		Token:     signed,
		TokenID:   jti,
		ExpiresAt: exp,
	}, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return s.publicKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || !claims.ActorClass.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) GetPublicKey() *rsa.PublicKey {
	return s.publicKey
}
