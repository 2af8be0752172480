package github

import (
	"crypto/rsa"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// appTokenSource is an oauth2.TokenSource returning JWTs that authenticate a
// GitHub App against the GitHub API. The issuer may be either the numeric App
// ID or the App's alphanumeric client ID.
type appTokenSource struct {
	issuer     string
	privateKey *rsa.PrivateKey
	expiration time.Duration
}

func newApplicationTokenSource(
	issuer string,
	privateKey []byte,
) (oauth2.TokenSource, error) {
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if len(privateKey) == 0 {
		return nil, errors.New("private key is required")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKey)
	if err != nil {
		return nil, err
	}
	return &appTokenSource{
		issuer:     issuer,
		privateKey: privKey,
		expiration: 10 * time.Minute,
	}, nil
}

// Token implements oauth2.TokenSource.
func (a *appTokenSource) Token() (*oauth2.Token, error) {
	// iat is backdated 60 seconds to allow for clock drift.
	now := time.Now().Add(-60 * time.Second)
	expiresAt := now.Add(a.expiration)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString(a.privateKey)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		Expiry:      expiresAt,
	}, nil
}
