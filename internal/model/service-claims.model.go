package model

import "github.com/golang-jwt/jwt/v5"

// ServiceClaims is the JWT payload exchanged between services.
type ServiceClaims struct {
	Caller string `json:"caller" validate:"required"`
	jwt.RegisteredClaims
}
