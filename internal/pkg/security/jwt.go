package security

import (
	"Haven/internal/api/config"
	"Haven/internal/model"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret     = []byte("haven-dev-secret")
	jwtIssuer     = "Haven"
	jwtExpiration = 24 * time.Hour
)

// InitJWT 使用配置覆盖默认密钥
func InitJWT(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpirationHours > 0 {
		jwtExpiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// GenerateToken 生成一个新的 JWT Token
func GenerateToken(user model.User, roles []string) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithIssuer(jwtIssuer))
	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("token 无效或已过期")
	}
	return claims, nil
}
