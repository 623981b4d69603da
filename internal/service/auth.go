package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies bearer tokens issued by the identity service.
type AuthService struct {
	jwtSecret string
	logger    *logrus.Logger
}

func NewAuthService(jwtSecret string, logger *logrus.Logger) *AuthService {
	return &AuthService{jwtSecret: jwtSecret, logger: logger}
}

// ParseToken validates an HS256 token and returns its subject.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	s.logger.Debug("Parsing JWT token")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		s.logger.WithError(err).Warn("Invalid JWT token")
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject := claims.Subject
	if subject == "" {
		s.logger.Error("Token has no subject")
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	s.logger.WithField("subject", subject).Debug("JWT token accepted")
	return subject, nil
}
