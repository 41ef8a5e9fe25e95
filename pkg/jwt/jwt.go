package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMissingSecret = errors.New("jwt secret is not configured")

// Data is the application payload carried in the "data" claim.
type Data struct {
	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
}

// Claims carries a random nonce so two tokens issued for the same device
// within one second still differ.
type Claims struct {
	Data  Data   `json:"data"`
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret    string
	Algorithm string
	Issuer    string
	NBFOffset time.Duration
	EXPOffset time.Duration
}

func (o Options) method() (jwt.SigningMethod, error) {
	alg := o.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	return method, nil
}

// GenerateToken signs a token for the user/device pair. The token id is the
// device id; nbf = iat + NBFOffset and exp = nbf + EXPOffset.
func GenerateToken(userID, deviceID string, opts Options) (string, error) {
	if opts.Secret == "" {
		return "", ErrMissingSecret
	}

	method, err := opts.method()
	if err != nil {
		return "", err
	}

	issuedAt := time.Now()
	notBefore := issuedAt.Add(opts.NBFOffset)

	claims := &Claims{
		Data: Data{
			UserID:   userID,
			DeviceID: deviceID,
		},
		Nonce: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        deviceID,
			Issuer:    opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(notBefore),
			ExpiresAt: jwt.NewNumericDate(notBefore.Add(opts.EXPOffset)),
		},
	}

	token := jwt.NewWithClaims(method, claims)
	return token.SignedString([]byte(opts.Secret))
}

// ValidateToken verifies signature, algorithm and the nbf/exp window.
func ValidateToken(tokenString string, opts Options) (*Claims, error) {
	if opts.Secret == "" {
		return nil, ErrMissingSecret
	}

	method, err := opts.method()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(opts.Secret), nil
	}, jwt.WithValidMethods([]string{method.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.Data.UserID == "" || claims.Data.DeviceID == "" {
		return nil, fmt.Errorf("%w: missing data section", jwt.ErrTokenInvalidClaims)
	}

	return claims, nil
}
