package discord

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/lifecycle"
)

// Client manages the Discord connection and routes gateway events to the
// draft lifecycle.
type Client struct {
	session     *discordgo.Session
	ctrl        *lifecycle.Controller
	channelName string
	timeout     time.Duration

	mu    sync.RWMutex
	botID string // set on Ready, empty until then
}

// ClientConfig holds configuration for the Discord client
type ClientConfig struct {
	Session     *discordgo.Session
	Controller  *lifecycle.Controller
	ChannelName string
	Timeout     time.Duration
}

// NewClient creates a new Discord client over an unopened session.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Session == nil || cfg.Controller == nil {
		return nil, fmt.Errorf("session and controller are required")
	}
	if cfg.ChannelName == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		session:     cfg.Session,
		ctrl:        cfg.Controller,
		channelName: cfg.ChannelName,
		timeout:     timeout,
	}

	c.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	c.session.AddHandler(c.handleReady)
	c.session.AddHandler(c.handleMessage)
	c.session.AddHandler(c.handleInteraction)

	return c, nil
}

// Connect opens the gateway connection. Message handling stays inert until
// the Ready event delivers the bot's own identity.
func (c *Client) Connect() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

// Disconnect closes the gateway connection.
func (c *Client) Disconnect() {
	if err := c.session.Close(); err != nil {
		slog.Warn("error closing Discord session", "error", err)
	}
}

func (c *Client) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.botID = r.User.ID
	c.mu.Unlock()
	slog.Info("Discord: connected", "bot", r.User.String(), "channel", c.channelName)
}

// selfID returns the bot's own user ID, or empty before Ready.
func (c *Client) selfID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.botID
}
