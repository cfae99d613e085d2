package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetClaims 重置链接里只带 token 行 ID；一次性状态在库里
type ResetClaims struct {
	TokenID string `json:"tid"`
	jwt.RegisteredClaims
}

// ResetSigner 给密码重置链接签名，防篡改；过期在签名层先筛一遍
type ResetSigner struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (s *ResetSigner) Issue(tokenID string) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

func (s *ResetSigner) Parse(tokenStr string) (*ResetClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*ResetClaims); ok && t.Valid && c.TokenID != "" {
		return c, nil
	}
	return nil, errors.New("invalid reset token")
}
