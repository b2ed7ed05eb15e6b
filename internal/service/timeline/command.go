package timeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/whatsapp-leads/api/internal/gateway"
)

// Command is a mutating chat action applied optimistically to a timeline.
type Command interface {
	// Apply records the tentative state.
	Apply(t *Timeline)
	// Remote performs the gateway call.
	Remote(ctx context.Context) error
	// Revert restores the state before Apply.
	Revert(t *Timeline)
	// Reconcile replaces the tentative state with what the gateway confirmed.
	Reconcile(t *Timeline)
}

// Execute applies the command, calls the gateway and then either reconciles or reverts.
func Execute(ctx context.Context, t *Timeline, cmd Command) error {
	cmd.Apply(t)
	if err := cmd.Remote(ctx); err != nil {
		cmd.Revert(t)
		return err
	}
	cmd.Reconcile(t)
	return nil
}

// SendCommand sends a text message.
type SendCommand struct {
	send      func(ctx context.Context) (gateway.Message, error)
	tentative Entry
	confirmed Entry
}

// NewSendCommand builds a send whose tentative entry is shown as pending until the gateway answers.
func NewSendCommand(chatID, text string, now time.Time, send func(ctx context.Context) (gateway.Message, error)) *SendCommand {
	return &SendCommand{
		send: send,
		tentative: Entry{
			Message: gateway.Message{
				ID:        "pending-" + uuid.NewString(),
				ChatID:    chatID,
				Text:      text,
				Type:      "conversation",
				Timestamp: now.UnixMilli(),
				FromMe:    true,
			},
			Pending: true,
		},
	}
}

// Tentative returns the pending entry.
func (c *SendCommand) Tentative() Entry { return c.tentative }

// Confirmed returns the reconciled entry once Execute succeeded.
func (c *SendCommand) Confirmed() Entry { return c.confirmed }

// Apply shows the pending entry.
func (c *SendCommand) Apply(t *Timeline) { t.add(c.tentative) }

// Remote sends the text and keeps the gateway's answer, filling gaps from the pending entry.
func (c *SendCommand) Remote(ctx context.Context) error {
	msg, err := c.send(ctx)
	if err != nil {
		return err
	}
	if msg.Key() == "" {
		msg.ID = c.tentative.ID
	}
	if msg.ChatID == "" {
		msg.ChatID = c.tentative.ChatID
	}
	if msg.Text == "" {
		msg.Text = c.tentative.Text
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = c.tentative.Timestamp
	}
	msg.FromMe = true
	c.confirmed = Entry{Message: msg}
	return nil
}

// Revert drops the pending entry.
func (c *SendCommand) Revert(t *Timeline) { t.remove(c.tentative.Key()) }

// Reconcile swaps the pending entry for the confirmed one.
func (c *SendCommand) Reconcile(t *Timeline) {
	t.remove(c.tentative.Key())
	t.add(c.confirmed)
}

// DeleteCommand deletes a message.
type DeleteCommand struct {
	key     string
	del     func(ctx context.Context) error
	removed Entry
	had     bool
}

// NewDeleteCommand builds a delete that hides the message until the gateway answers.
func NewDeleteCommand(key string, del func(ctx context.Context) error) *DeleteCommand {
	return &DeleteCommand{key: key, del: del}
}

// Apply hides the message and tombstones its key.
func (c *DeleteCommand) Apply(t *Timeline) {
	c.removed, c.had = t.remove(c.key)
	t.tombstone(c.key, true)
}

// Remote deletes the message on the gateway.
func (c *DeleteCommand) Remote(ctx context.Context) error { return c.del(ctx) }

// Revert lifts the tombstone and restores the message.
func (c *DeleteCommand) Revert(t *Timeline) {
	t.tombstone(c.key, false)
	if c.had {
		t.add(c.removed)
	}
}

// Reconcile is a no-op: the tombstone stays.
func (c *DeleteCommand) Reconcile(t *Timeline) {}

var (
	_ Command = (*SendCommand)(nil)
	_ Command = (*DeleteCommand)(nil)
)
