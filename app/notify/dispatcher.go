package notify

import (
	"log/slog"
	"time"

	"github.com/gregdel/pushover"

	"jobpush/app/feed"
)

// Client is the part of the Pushover API the dispatcher uses.
type Client interface {
	SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

var _ Client = (*pushover.Pushover)(nil)

// Dispatcher pushes one notification per posting, in the order given,
// pacing sends with a fixed delay to respect the Pushover API rate limits.
// A failed send is logged and never stops the remaining postings.
type Dispatcher struct {
	client    Client
	recipient *pushover.Recipient
	composer  *Composer
	sendDelay time.Duration
}

func NewDispatcher(client Client, recipient *pushover.Recipient, composer *Composer, sendDelay time.Duration) *Dispatcher {
	return &Dispatcher{
		client:    client,
		recipient: recipient,
		composer:  composer,
		sendDelay: sendDelay,
	}
}

// Run sends a notification for each posting. The delay is applied after
// every send attempt regardless of its outcome. The batch always runs to
// completion: every posting handed to the dispatcher gets a send attempt,
// so the caller may safely record the whole batch as notified.
func (d *Dispatcher) Run(postings []feed.Posting) {
	for _, posting := range postings {
		message := d.composer.Run(posting)

		if _, err := d.client.SendMessage(message, d.recipient); err != nil {
			slog.Error("Failed to push notification", "posting", posting.ID, "error", err)
		} else {
			slog.Info("Notification pushed", "posting", posting.ID)
		}

		time.Sleep(d.sendDelay)
	}
}
