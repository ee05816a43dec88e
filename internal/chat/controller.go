// Package chat holds the application state behind the chat screen: the
// session identifier, the transcript and the in-flight flag.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/api"
	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/storage"
)

// Controller owns the session, the transcript and the busy flag.
// All methods are safe for concurrent use.
type Controller struct {
	api    api.ChatAPI
	store  storage.Store
	now    func() time.Time
	logger *zap.Logger

	mu            sync.Mutex
	bootstrapOnce sync.Once
	sessionID     string
	transcript    []models.Message
	busy          bool
	sources       []models.Chunk
	lastErr       error
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock used to name offline sessions
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGreeting replaces the opening assistant message
func WithGreeting(greeting string) Option {
	return func(c *Controller) {
		if greeting != "" {
			c.transcript = []models.Message{models.AssistantMessage(greeting)}
		}
	}
}

// New creates a Controller whose transcript starts with the greeting
func New(client api.ChatAPI, store storage.Store, opts ...Option) *Controller {
	c := &Controller{
		api:        client,
		store:      store,
		now:        time.Now,
		logger:     zap.NewNop(),
		transcript: []models.Message{models.AssistantMessage(models.Greeting)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bootstrap establishes the session identifier. A stored identifier is
// reused; otherwise one is requested from the service, and if that fails
// an offline identifier is synthesized. Only the first call does work.
func (c *Controller) Bootstrap(ctx context.Context) string {
	c.bootstrapOnce.Do(func() {
		id := c.bootstrap(ctx)
		c.mu.Lock()
		c.sessionID = id
		c.mu.Unlock()
	})
	return c.SessionID()
}

func (c *Controller) bootstrap(ctx context.Context) string {
	if c.store != nil {
		stored, ok, err := c.store.Get(models.SessionKey)
		if err != nil {
			c.logger.Warn("failed to read stored session", zap.Error(err))
		} else if ok && stored != "" {
			c.logger.Debug("reusing stored session", zap.String("session_id", stored))
			return stored
		}
	}

	id, err := c.api.CreateSession(ctx)
	if err != nil {
		id = fmt.Sprintf("%s%d", models.OfflinePrefix, c.now().UnixMilli())
		c.logger.Warn("session bootstrap failed, continuing offline",
			zap.String("session_id", id), zap.Error(err))
	}

	if c.store != nil {
		if err := c.store.Set(models.SessionKey, id); err != nil {
			c.logger.Warn("failed to persist session", zap.Error(err))
		}
	}
	return id
}

// SessionID returns the current session identifier, empty before Bootstrap
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Offline reports whether the session was synthesized locally
func (c *Controller) Offline() bool {
	return models.IsOfflineSession(c.SessionID())
}

// Busy reports whether a request is outstanding
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Ready reports whether a question can be submitted now
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID != "" && !c.busy
}

// Transcript returns a copy of the transcript in insertion order
func (c *Controller) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Sources returns the chunks retrieved for the most recent answer
func (c *Controller) Sources() []models.Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Chunk, len(c.sources))
	copy(out, c.sources)
	return out
}

// LastAnswer returns the content of the latest assistant reply, not
// counting the greeting
func (c *Controller) LastAnswer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.transcript) - 1; i > 0; i-- {
		if c.transcript[i].Role == models.RoleAssistant {
			return c.transcript[i].Content
		}
	}
	return ""
}

// Submit admits question. On success the user entry is appended and the
// controller becomes busy until Resolve returns. Rejected questions leave
// the state unchanged.
func (c *Controller) Submit(question string) error {
	if strings.TrimSpace(question) == "" {
		return apierrors.ErrEmptyQuestion
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID == "" {
		return apierrors.ErrNoSession
	}
	if c.busy {
		return apierrors.ErrBusy
	}

	c.transcript = append(c.transcript, models.UserMessage(question))
	c.busy = true
	return nil
}

// Resolve sends an admitted question and appends the assistant reply.
// Failures are turned into the unreachable placeholder; the busy flag is
// always cleared.
func (c *Controller) Resolve(ctx context.Context, question string) models.Message {
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	sessionID := c.SessionID()
	reply := models.AssistantMessage(models.UnreachableAnswer)
	var sources []models.Chunk

	resp, err := c.api.Ask(ctx, sessionID, question)
	switch {
	case err != nil:
		c.logger.Warn("chat request failed",
			zap.String("session_id", sessionID),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Error(err))
	case resp == nil || resp.Answer == "":
		reply = models.AssistantMessage(models.FallbackAnswer)
		if resp != nil {
			sources = resp.TopChunks
		}
	default:
		reply = models.AssistantMessage(resp.Answer)
		sources = resp.TopChunks
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, reply)
	c.sources = sources
	c.lastErr = err
	c.mu.Unlock()

	return reply
}

// LastError returns the failure behind the most recent reply, or nil when
// the service answered
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Send submits question and waits for the reply
func (c *Controller) Send(ctx context.Context, question string) (models.Message, error) {
	if err := c.Submit(question); err != nil {
		return models.Message{}, err
	}
	return c.Resolve(ctx, question), nil
}

// Reset forgets the stored session identifier
func (c *Controller) Reset() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Delete(models.SessionKey); err != nil {
		return fmt.Errorf("failed to delete stored session: %w", err)
	}
	return nil
}
