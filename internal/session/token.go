package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry indicates the access token carries no readable expiry claim.
var ErrNoExpiry = errors.New("session: token has no expiry claim")

// TokenExpiry reads the exp claim from a JWT access token without verifying
// its signature. The client never validates tokens, it only schedules
// refreshes, so unverified parsing is sufficient.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if expiry == nil {
		return time.Time{}, ErrNoExpiry
	}
	return expiry.Time, nil
}

// NeedsRefresh reports whether the access token expires within leeway. Opaque
// or claim-free tokens never trigger a proactive refresh; the backend's 401
// remains the fallback for those.
func (s *Store) NeedsRefresh(leeway time.Duration) bool {
	token := s.Token()
	if token == "" || s.RefreshToken() == "" {
		return false
	}
	expiry, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return time.Until(expiry) <= leeway
}
