package modal

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

const (
	// FallbackReply is shown when the assistant reports a failure without its own text.
	FallbackReply = "I apologize, but I'm having trouble connecting right now. Please try again later or contact support."
	// ConnectionErrorReply is shown when the chat call fails outright.
	ConnectionErrorReply = "Connection error. Please ensure the scheduling service is reachable."
)

// Pending is an in-flight chat message returned by BeginSend.
type Pending struct {
	Text string
	seq  uint64
}

// ChatSession drives the assistant overlay. Messages are kept for the life of the session,
// across closing and reopening the overlay.
type ChatSession struct {
	st      *state.Store
	svc     remote.Service
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	id       string
	open     bool
	messages []model.ChatMessage
	sending  bool
	seq      uint64
}

// NewChatSession creates a closed session.
func NewChatSession(st *state.Store, svc remote.Service, logger *zap.Logger, m *metrics.Metrics) *ChatSession {
	return &ChatSession{
		st:      st,
		svc:     svc,
		logger:  logging.OrGlobal(logger),
		metrics: m,
		id:      uuid.NewString(),
	}
}

// ID identifies the session in logs.
func (c *ChatSession) ID() string { return c.id }

// Open shows the overlay.
func (c *ChatSession) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.st.OpenModal(state.ModalChat); err != nil {
		return err
	}
	c.open = true
	c.metrics.ModalOpened(string(state.ModalChat))
	return nil
}

// Close hides the overlay. A pending reply still lands in the history.
func (c *ChatSession) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.open = false
	c.st.CloseModal(state.ModalChat)
}

// IsOpen reports whether the overlay is shown.
func (c *ChatSession) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Sending reports whether a message is in flight; the send control is disabled meanwhile.
func (c *ChatSession) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Messages returns a copy of the history, including the pending placeholder.
func (c *ChatSession) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.messages...)
}

// BeginSend appends the user message and a pending placeholder. ok is false when text is
// blank, which is a no-op.
func (c *ChatSession) BeginSend(text string) (p Pending, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return Pending{}, false, ErrNotOpen
	}
	if c.sending {
		return Pending{}, false, ErrSendInFlight
	}
	c.sending = true
	c.seq++
	c.messages = append(c.messages,
		model.ChatMessage{Role: model.RoleUser, Text: text},
		model.ChatMessage{Role: model.RoleAssistant, Pending: true},
	)
	return Pending{Text: text, seq: c.seq}, true, nil
}

// Exchange performs the remote call for p. It does not touch session state.
func (c *ChatSession) Exchange(ctx context.Context, p Pending) (remote.ChatReply, error) {
	return c.svc.Chat(ctx, p.Text)
}

// CompleteSend replaces the placeholder with the reply and re-enables sending.
func (c *ChatSession) CompleteSend(p Pending, reply remote.ChatReply, callErr error) model.ChatMessage {
	msg := model.ChatMessage{Role: model.RoleAssistant}
	switch {
	case callErr != nil:
		c.logger.Warn("Chat call failed", zap.String("session", c.id), zap.Error(callErr))
		msg.Text = ConnectionErrorReply
	case !reply.Success:
		c.logger.Info("Chat reply unsuccessful", zap.String("session", c.id), zap.String("error", reply.Error))
		msg.Text = reply.Fallback
		if strings.TrimSpace(msg.Text) == "" {
			msg.Text = FallbackReply
		}
	default:
		msg.Text = reply.Message
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p.seq != c.seq {
		return msg
	}
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Pending {
			c.messages[i] = msg
			break
		}
	}
	c.sending = false
	return msg
}

// Send runs a full exchange. A blank message returns ok=false without a remote call.
func (c *ChatSession) Send(ctx context.Context, text string) (reply model.ChatMessage, ok bool, err error) {
	p, ok, err := c.BeginSend(text)
	if err != nil || !ok {
		return model.ChatMessage{}, ok, err
	}
	r, callErr := c.Exchange(ctx, p)
	return c.CompleteSend(p, r, callErr), true, nil
}
