package api

import (
	"time"

	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
)

type API struct {
	Db       *mongodb.DB
	Secret   string
	TokenTTL time.Duration
}

func NewAPI(db *mongodb.DB, secret string, tokenTTL time.Duration) *API {
	return &API{Db: db, Secret: secret, TokenTTL: tokenTTL}
}
