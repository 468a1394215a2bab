package glm

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 60 * time.Second

// MakeToken signs the short-lived token the GLM endpoint expects for
// compound "id.secret" credentials: HS256 over the dot-joined compact JSON
// header and payload, all three parts URL-safe base64 without padding. The
// payload carries the key id and both expiry and issue time in epoch
// milliseconds, which is what the endpoint checks against.
func MakeToken(credential string, ttl time.Duration, now time.Time) (string, error) {
	id, secret, ok := strings.Cut(credential, ".")
	if !ok || id == "" || secret == "" {
		return "", errors.New("credential is not of the id.secret form")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	nowMillis := now.UnixMilli()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"api_key":   id,
		"exp":       nowMillis + ttl.Milliseconds(),
		"timestamp": nowMillis,
	})
	token.Header["sign_type"] = "SIGN"
	delete(token.Header, "typ")

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}
