package server

import "time"

const (
	readHeaderTimeout = 10 * time.Second
	// ShutdownTimeout bounds the graceful shutdown in main.
	ShutdownTimeout = 15 * time.Second
)
