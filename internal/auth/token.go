package auth

import (
	"context"

	"github.com/anzzxx/E-lern-backend/internal/domain"

	"github.com/golang-jwt/jwt"
)

// UserDirectory резолвит user_id из токена в профиль.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (domain.Identity, error)
}

// Используется SigningMethodHS256 — тем же секретом подписывает токены
// сервис аутентификации.
type TokenVerifier struct {
	secret []byte
	users  UserDirectory
}

func NewTokenVerifier(secret string, users UserDirectory) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), users: users}
}

type AccessClaims struct {
	UserID int64 `json:"user_id"`
	jwt.StandardClaims // включает Issuer, ExpiresAt, NotBefore, IssuedAt, Subject
}

// Verify проверяет подпись и срок действия токена и возвращает личность
// пользователя. Пустой токен — domain.ErrNoToken, всё остальное невалидное —
// domain.ErrInvalidToken.
func (v *TokenVerifier) Verify(ctx context.Context, tokenStr string) (domain.Identity, error) {
	if tokenStr == "" {
		return domain.Identity{}, domain.ErrNoToken
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	ident, err := v.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return ident, nil
}
