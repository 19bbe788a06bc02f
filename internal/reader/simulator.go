// internal/reader/simulator.go
package reader

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Simulator emits synthetic card scans from a fixed rotation when no
// reader hardware is available.
type Simulator struct {
	cards    []string
	interval time.Duration
	logger   *zap.Logger
	index    int
}

// NewSimulator creates a simulator cycling the given cards
func NewSimulator(cards []string, interval time.Duration, logger *zap.Logger) *Simulator {
	return &Simulator{
		cards:    cards,
		interval: interval,
		logger:   logger.With(zap.String("component", "simulator")),
	}
}

// Next returns the next card in the rotation
func (s *Simulator) Next() string {
	card := s.cards[s.index]
	s.index = (s.index + 1) % len(s.cards)
	return card
}

// Run emits one synthetic scan per interval until the context is
// cancelled. Simulated scans bypass debouncing.
func (s *Simulator) Run(ctx context.Context, emit func(cardID string)) {
	s.logger.Info("Simulated reader active",
		zap.Duration("interval", s.interval),
		zap.Int("cards", len(s.cards)),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			card := s.Next()
			s.logger.Info("Simulated card scan", zap.String("card_id", card))
			emit(card)
		}
	}
}
