package jwttoken

import (
	"antygravity/internal/platform/middleware"
)

// MiddlewareAdapter exposes the token service through the interface the auth
// middleware expects, keeping middleware free of jwt library types.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateAccessToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.Validate(tokenString, UseAccess)
	if err != nil {
		return nil, err
	}
	userID, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID: userID,
		JTI:    claims.ID,
	}, nil
}
