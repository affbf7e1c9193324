package config

import (
	"time"
)

const defaultJWTSecret = "change-this-secret-in-production"

var JWTSecret []byte
var JWTExpiration time.Duration

func init() {
	SetJWT(defaultJWTSecret, 24*time.Hour)
}

// SetJWT replaces the signing secret and token lifetime.
func SetJWT(secret string, expiration time.Duration) {
	if secret == "" {
		secret = defaultJWTSecret
	}
	JWTSecret = []byte(secret)
	JWTExpiration = expiration
}
