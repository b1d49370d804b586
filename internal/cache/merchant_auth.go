package cache

import (
	"context"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/constants"
)

// MerchantAuth is the cached payment gateway login snapshot. ExpiresAt is
// a Unix seconds timestamp taken from the gateway's expires_in response.
type MerchantAuth struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	ObtainedAt  int64  `json:"obtained_at"`
}

// Valid reports whether the token is still usable at the given instant,
// keeping a refresh buffer so sessions never ride an about-to-expire token.
func (a *MerchantAuth) Valid(now time.Time, buffer time.Duration) bool {
	if a == nil || a.AccessToken == "" {
		return false
	}
	return now.Add(buffer).Unix() < a.ExpiresAt
}

// GetMerchantAuth reads the cached gateway token.
func GetMerchantAuth(ctx context.Context) (*MerchantAuth, bool, error) {
	var auth MerchantAuth
	hit, err := GetJSON(ctx, constants.BridgerTokenCacheKey, &auth)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &auth, true, nil
}

// SetMerchantAuth caches the gateway token until its expiry.
func SetMerchantAuth(ctx context.Context, auth *MerchantAuth) error {
	if auth == nil || auth.AccessToken == "" {
		return nil
	}
	ttl := time.Until(time.Unix(auth.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, constants.BridgerTokenCacheKey, auth, ttl)
}

// DelMerchantAuth drops the cached gateway token.
func DelMerchantAuth(ctx context.Context) error {
	return Del(ctx, constants.BridgerTokenCacheKey)
}
