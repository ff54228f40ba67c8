package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/blondie/internal/logging"
	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/services/statistics"
	"github.com/fadedpez/blondie/pkg/services/table"
)

// Bot bridges Discord and the table engine: slash commands become engine
// calls, and engine events come back as channel messages. One channel hosts
// at most one table at a time.
type Bot struct {
	session *discordgo.Session
	tables  *table.Service
	stats   *statistics.Service
	logger  *logging.Logger
	appID   string
	guildID string

	// Protected channel<->table bindings
	mu              sync.RWMutex
	tablesByChannel map[string]string // channelID -> gameID
	channelsByGame  map[string]string // gameID -> channelID
}

// NewBot creates a new instance of the bot
func NewBot(token, appID, guildID string, tables *table.Service, stats *statistics.Service, logger *logging.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := &Bot{
		session:         session,
		tables:          tables,
		stats:           stats,
		logger:          logger,
		appID:           appID,
		guildID:         guildID,
		tablesByChannel: make(map[string]string),
		channelsByGame:  make(map[string]string),
	}

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleInteractions)
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return bot, nil
}

// Start opens the websocket connection and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.appID, b.guildID, commandDefinitions()); err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}

	b.logger.Info("Discord bot connected")
	return nil
}

// Stop gracefully shuts down the bot and closes the Discord connection
func (b *Bot) Stop() error {
	b.mu.Lock()
	b.tablesByChannel = make(map[string]string)
	b.channelsByGame = make(map[string]string)
	b.mu.Unlock()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("error closing connection: %w", err)
	}
	return nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in as %s", r.User.Username)
}

// bindTable ties a table to the channel it was created in
func (b *Bot) bindTable(channelID, gameID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.tablesByChannel[channelID]; ok {
		delete(b.channelsByGame, old)
	}
	b.tablesByChannel[channelID] = gameID
	b.channelsByGame[gameID] = channelID
}

// tableFor resolves the table bound to a channel
func (b *Bot) tableFor(channelID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	gameID, ok := b.tablesByChannel[channelID]
	return gameID, ok
}

// channelFor resolves the channel a table is bound to
func (b *Bot) channelFor(gameID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	channelID, ok := b.channelsByGame[gameID]
	return channelID, ok
}

// Publish implements broadcast.Broadcaster: engine events become messages in
// the table's channel. Events for unbound tables are dropped.
func (b *Bot) Publish(ctx context.Context, event *broadcast.Event) error {
	channelID, ok := b.channelFor(event.GameID)
	if !ok {
		return nil
	}
	content := FormatEvent(event)
	if content == "" {
		return nil
	}
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("error sending event message: %w", err)
	}
	if event.Type == broadcast.EventGameCompleted {
		b.mu.Lock()
		delete(b.tablesByChannel, channelID)
		delete(b.channelsByGame, event.GameID)
		b.mu.Unlock()
	}
	return nil
}

// Close implements broadcast.Broadcaster; the session is owned by Stop
func (b *Bot) Close() error {
	return nil
}
