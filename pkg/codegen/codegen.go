// Package codegen generates short human-facing codes (employee codes, farmer IDs)
// and retries until one is free.
package codegen

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// UpperAlphaNumeric is the alphabet for employee and farmer codes.
	UpperAlphaNumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// LowerAlphaNumeric is the alphabet for batch ID suffixes.
	LowerAlphaNumeric = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// DefaultAttempts bounds the check-then-insert loop.
const DefaultAttempts = 10

// ErrExhausted is returned when no free code was found within the attempt budget.
var ErrExhausted = errors.New("codegen: no free code found")

// Random returns n characters drawn uniformly from alphabet.
func Random(n int, alphabet string) (string, error) {
	if n <= 0 || alphabet == "" {
		return "", fmt.Errorf("codegen: invalid length %d or empty alphabet", n)
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("codegen: read random: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// ExistsFunc reports whether a code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Unique draws codes of length n until exists reports one free.
// The caller's insert can still collide with a concurrent writer; the store's
// unique index is the final arbiter.
func Unique(ctx context.Context, n int, alphabet string, exists ExistsFunc) (string, error) {
	for range DefaultAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := Random(n, alphabet)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
