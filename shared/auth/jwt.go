package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims carries the user's opaque identity token under the "id" claim.
type AccessClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the identity token under the "refresh_id" claim so a
// refresh token can never be presented as an access token.
type RefreshClaims struct {
	RefreshID string `json:"refresh_id"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication or refresh.
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresIn  time.Duration
	RefreshTokenExpiresIn time.Duration
}

// JWTAuthenticator issues and validates HMAC-signed tokens.
type JWTAuthenticator struct {
	secret        string
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, issuer string, accessExpiry, refreshExpiry time.Duration) JWTAuthenticator {
	return JWTAuthenticator{
		secret:        secret,
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateTokenPair issues a fresh access and refresh token for the given
// identity token.
func (a *JWTAuthenticator) GenerateTokenPair(identityToken string) (*TokenPair, error) {
	accessToken, err := a.generateToken(&AccessClaims{
		ID:               identityToken,
		RegisteredClaims: a.registeredClaims(identityToken, a.accessExpiry),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.generateToken(&RefreshClaims{
		RefreshID:        identityToken,
		RegisteredClaims: a.registeredClaims(identityToken, a.refreshExpiry),
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  a.accessExpiry,
		RefreshTokenExpiresIn: a.refreshExpiry,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (a *JWTAuthenticator) ValidateAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := a.validateToken(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("missing id claim")
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (a *JWTAuthenticator) ValidateRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := a.validateToken(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.RefreshID == "" {
		return nil, errors.New("missing refresh_id claim")
	}
	return claims, nil
}

func (a *JWTAuthenticator) registeredClaims(subject string, expiresIn time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{a.issuer},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
}

func (a *JWTAuthenticator) generateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

func (a *JWTAuthenticator) validateToken(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.issuer),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}
