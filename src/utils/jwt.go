package utils

import (
	"log"
	"time"

	"github.com/MicahParks/keyfunc"
)

func JwksCreatePublicKey(jwksURL string, refreshInterval time.Duration) (*keyfunc.JWKS, error) {
	options := keyfunc.Options{
		RefreshInterval: refreshInterval,
		RefreshErrorHandler: func(err error) {
			log.Printf("jwks refresh error: %s\n", err.Error())
		},
	}

	jwks, err := keyfunc.Get(jwksURL, options)
	if err != nil {
		return nil, err
	}
	return jwks, nil
}
