package handlers

import (
	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/domain/auth"
	"memorylocker/internal/domain/journal"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth    *AuthHandler
	Journal *JournalHandler
}

func NewProvider(cfg *config.Config, service *journal.Service, gate *auth.Gate, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:    NewAuthHandler(gate, log),
		Journal: NewJournalHandler(cfg, service, log),
	}
}
