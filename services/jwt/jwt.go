package jwt

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

const (
	AccessTokenValidity   = 24 * time.Hour
	RefreshTokenValidity  = 7 * 24 * time.Hour
	ActivationValidity    = 24 * time.Hour
	PasswordResetValidity = time.Hour
)

// Token kinds carried in the "type" claim.
const (
	KindAccess        = "access_token"
	KindRefresh       = "refresh_token"
	KindActivation    = "activation"
	KindPasswordReset = "password_reset"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateTokenPair returns a signed access token and refresh token for a user.
func GenerateTokenPair(email, secret string, userID uint, role string) (string, string, error) {
	accessToken, err := sign(jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  role,
		"type":  KindAccess,
		"exp":   time.Now().Add(AccessTokenValidity).Unix(),
	}, secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := sign(jwt.MapClaims{
		"id":   userID,
		"sub":  email,
		"type": KindRefresh,
		"exp":  time.Now().Add(RefreshTokenValidity).Unix(),
	}, secret)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func sign(claims jwt.MapClaims, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims parses an HS256 token and returns its claims. Expiry is checked.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not parse token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateUserToken signs a single-purpose token for a user. The fingerprint is
// mixed into the signing key, so changing it (for example the password hash)
// invalidates every outstanding token.
func GenerateUserToken(kind string, userID uint, secret, fingerprint string, validity time.Duration) (string, error) {
	return sign(jwt.MapClaims{
		"id":   userID,
		"type": kind,
		"exp":  time.Now().Add(validity).Unix(),
	}, secret+fingerprint)
}

// ValidateUserToken checks that a token made by GenerateUserToken is of the given
// kind and belongs to userID.
func ValidateUserToken(kind, tokenString string, userID uint, secret, fingerprint string) error {
	claims, err := ValidateAndGetClaims(tokenString, secret+fingerprint)
	if err != nil {
		return err
	}
	if claims["type"] != kind {
		return ErrInvalidToken
	}
	id, err := ClaimUserID(claims)
	if err != nil || id != userID {
		return ErrInvalidToken
	}
	return nil
}

// ClaimUserID reads the numeric "id" claim.
func ClaimUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case float64:
		return uint(v), nil
	default:
		return 0, errors.New("invalid userID format")
	}
}

// EncodeUID is the URL-safe form of a user id used in emailed links.
func EncodeUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, errors.Wrap(err, "invalid uid")
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid uid")
	}
	return uint(id), nil
}
