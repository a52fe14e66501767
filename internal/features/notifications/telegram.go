package notifications

import (
	"context"
	"fmt"

	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/platform/telegram"
)

// TelegramNotifier posts public announcements to a channel. Failed draws are
// NOT posted publicly; they go to the service log only.
type TelegramNotifier struct {
	client    *telegram.Client
	channelID int64
}

func NewTelegramNotifier(client *telegram.Client, channelID int64) *TelegramNotifier {
	return &TelegramNotifier{client: client, channelID: channelID}
}

func (n *TelegramNotifier) NotifyDrawStarting(ctx context.Context, event DrawStarting) {
	text := fmt.Sprintf("🎲 <b>Daily raffle %s is starting!</b>\n%d qualified wallets, %d tickets in the pool.",
		event.Day, event.QualifiedCount, event.TotalTickets)
	n.send(ctx, text)
}

func (n *TelegramNotifier) NotifyWinnerRevealed(ctx context.Context, event WinnerRevealed) {
	text := fmt.Sprintf("🏆 <b>Winner #%d</b>: <code>%s</code>", event.Position, shortWallet(event.Wallet))
	if event.Prize != "" {
		text += fmt.Sprintf("\nPrize: %s", event.Prize)
	}
	n.send(ctx, text)
}

func (n *TelegramNotifier) NotifyDrawComplete(ctx context.Context, event DrawComplete) {
	text := fmt.Sprintf("✅ <b>Raffle %s complete</b>, %d winners.\nAudit root: <code>%s</code>",
		event.Day, event.Winners, event.MerkleRoot)
	n.send(ctx, text)
}

func (n *TelegramNotifier) NotifyDrawFailed(_ context.Context, event DrawFailed) {
	// Operational alert only; the channel never sees failed runs.
	logger.Error().Str("day", event.Day).Str("reason", event.Reason).Msg("draw failed (telegram notifier suppressing public post)")
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.client == nil || n.channelID == 0 {
		return
	}
	if err := n.client.SendMessage(ctx, n.channelID, text); err != nil {
		logger.Warn().Err(err).Msg("failed to post announcement")
	}
}

func shortWallet(wallet string) string {
	if len(wallet) <= 12 {
		return wallet
	}
	return wallet[:6] + "…" + wallet[len(wallet)-4:]
}
