package notifications

import (
	"context"

	"vrf-raffle-backend/internal/common/logger"
)

// LogNotifier writes announcements to the service log. It is the default
// notifier in development and backs operational alerts everywhere.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyDrawStarting(_ context.Context, event DrawStarting) {
	logger.Info().
		Str("day", event.Day).
		Int("qualified", event.QualifiedCount).
		Int("total_tickets", event.TotalTickets).
		Msg("draw starting")
}

func (n *LogNotifier) NotifyWinnerRevealed(_ context.Context, event WinnerRevealed) {
	logger.Info().
		Str("day", event.Day).
		Int("position", event.Position).
		Str("wallet", event.Wallet).
		Str("prize", event.Prize).
		Msg("winner revealed")
}

func (n *LogNotifier) NotifyDrawComplete(_ context.Context, event DrawComplete) {
	logger.Info().
		Str("day", event.Day).
		Int("winners", event.Winners).
		Str("merkle_root", event.MerkleRoot).
		Str("seed_source", event.SeedSource).
		Msg("draw complete")
}

func (n *LogNotifier) NotifyDrawFailed(_ context.Context, event DrawFailed) {
	logger.Error().
		Str("day", event.Day).
		Str("reason", event.Reason).
		Msg("draw failed")
}
