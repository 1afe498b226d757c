// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives used by the session
// store: bcrypt password hashing and HS256 signing of the persisted session.
//
// # Why sign the session?
//
// The current session lives in the same key/value storage as everything
// else. Signing it means a hand-edited value (say, a role flipped to admin)
// is detected at load time and discarded instead of trusted.
package sec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned when a persisted session fails verification.
var ErrInvalidSession = errors.New("sec: invalid session token")

// SessionClaims is the payload of a persisted session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Profile is the JSON encoded profile snapshot, kept opaque here so this
	// package stays free of domain types.
	Profile json.RawMessage `json:"prf"`
}

// SessionSigner signs and verifies session tokens with HMAC-SHA256.
type SessionSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewSessionSigner creates a signer keyed by secret.
func NewSessionSigner(secret, issuer string) *SessionSigner {
	return &SessionSigner{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Sign encodes profile and returns a compact token whose subject is userID.
func (signer *SessionSigner) Sign(userID string, profile any) (string, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("sec: failed to encode session: %w", err)
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   signer.issuer,
			IssuedAt: jwt.NewNumericDate(signer.now()),
		},
		Profile: raw,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session: %w", err)
	}

	return signedToken, nil
}

// Verify checks the token and decodes its profile into target.
// It returns the token subject on success and [ErrInvalidSession] otherwise.
func (signer *SessionSigner) Verify(tokenString string, target any) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return signer.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signer.issuer),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if err := json.Unmarshal(claims.Profile, target); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return claims.Subject, nil
}
