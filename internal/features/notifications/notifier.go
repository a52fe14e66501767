// Package notifications defines the typed announcement events of a daily
// draw and the pluggable notifier they are delivered to. Formatting per
// platform and delivery guarantees are the notifier's concern; the
// orchestrator only emits the ordered event sequence.
package notifications

import "context"

// DrawStarting opens the announcement sequence for a day.
type DrawStarting struct {
	Day            string
	QualifiedCount int
	TotalTickets   int
}

// WinnerRevealed announces one winner; events arrive in draw order.
type WinnerRevealed struct {
	Day      string
	Position int
	Wallet   string
	Prize    string
}

// DrawComplete closes the sequence with the published audit anchors.
type DrawComplete struct {
	Day        string
	Winners    int
	MerkleRoot string
	SeedSource string
}

// DrawFailed is an operational alert, never a public announcement.
type DrawFailed struct {
	Day    string
	Reason string
}

type Notifier interface {
	NotifyDrawStarting(ctx context.Context, event DrawStarting)
	NotifyWinnerRevealed(ctx context.Context, event WinnerRevealed)
	NotifyDrawComplete(ctx context.Context, event DrawComplete)
	NotifyDrawFailed(ctx context.Context, event DrawFailed)
}
