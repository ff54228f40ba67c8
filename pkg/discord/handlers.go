package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/services/statistics"
	"github.com/fadedpez/blondie/pkg/services/table"
)

// commandDefinitions lists the slash commands the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	intOption := func(name, description string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        name,
			Description: description,
			Required:    required,
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "cards",
			Description: "Run a card table in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a new table",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "variant",
							Description: "Game variant",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Texas Hold'em", Value: "holdem"},
								{Name: "Five-Card Draw", Value: "fivedraw"},
								{Name: "Seven-Card Stud", Value: "sevenstud"},
								{Name: "Follow the Queen", Value: "followqueen"},
								{Name: "Guts", Value: "guts"},
							},
						},
						intOption("ante", "Ante per hand", false),
						intOption("small-blind", "Small blind", false),
						intOption("big-blind", "Big blind", false),
						intOption("bring-in", "Bring-in for stud games", false),
						intOption("min-bet", "Minimum bet", false),
						intOption("max-bet", "Maximum bet (0 for no limit)", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Take a seat",
					Options: []*discordgo.ApplicationCommandOption{
						intOption("buyin", "Chips to bring to the table", true),
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "deal", Description: "Start play"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "leave", Description: "Leave the table"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "check", Description: "Check"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "call", Description: "Call the current bet"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "fold", Description: "Fold"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "allin", Description: "Move all in"},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bet",
					Description: "Open the betting",
					Options:     []*discordgo.ApplicationCommandOption{intOption("amount", "Chips to bet", true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "raise",
					Description: "Raise the current bet",
					Options:     []*discordgo.ApplicationCommandOption{intOption("amount", "New total bet", true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "draw",
					Description: "Discard and draw replacements",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "cards",
							Description: "Card positions to discard, e.g. 1,3,5 (empty to stand pat)",
							Required:    false,
						},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "stay", Description: "Stay in (guts)"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "drop", Description: "Drop out (guts)"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show your hand at showdown"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "muck", Description: "Muck your hand at showdown"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "stats", Description: "Show the table leaderboard"},
			},
		},
	}
}

func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != "cards" || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)
	user := interactionUser(i)
	if user == nil {
		return
	}
	ctx := context.Background()

	var err error
	switch sub.Name {
	case "open":
		err = b.handleOpen(ctx, s, i, opts)
	case "join":
		err = b.withTable(i, func(gameID string) error {
			_, joinErr := b.tables.Join(ctx, gameID, user.ID, user.Username, int(opts["buyin"].IntValue()))
			return joinErr
		})
	case "deal":
		err = b.withTable(i, func(gameID string) error {
			_, startErr := b.tables.StartGame(ctx, gameID)
			return startErr
		})
	case "leave":
		err = b.withTable(i, func(gameID string) error {
			_, leaveErr := b.tables.Leave(ctx, gameID, user.ID)
			return leaveErr
		})
	case "check", "call", "fold", "allin", "bet", "raise":
		err = b.withTable(i, func(gameID string) error {
			amount := 0
			if opt, ok := opts["amount"]; ok {
				amount = int(opt.IntValue())
			}
			_, actionErr := b.tables.ProcessAction(ctx, gameID, user.ID, actionType(sub.Name), amount)
			return actionErr
		})
	case "draw":
		err = b.withTable(i, func(gameID string) error {
			indices, parseErr := parseCardPositions(stringOption(opts, "cards"))
			if parseErr != nil {
				return parseErr
			}
			_, drawErr := b.tables.ProcessDraw(ctx, gameID, user.ID, indices)
			return drawErr
		})
	case "stay", "drop":
		err = b.withTable(i, func(gameID string) error {
			_, declErr := b.tables.ProcessDropOrStay(ctx, gameID, user.ID, sub.Name == "stay")
			return declErr
		})
	case "show":
		err = b.withTable(i, func(gameID string) error {
			_, showErr := b.tables.ProcessReveal(ctx, gameID, user.ID)
			return showErr
		})
	case "muck":
		err = b.withTable(i, func(gameID string) error {
			_, muckErr := b.tables.ProcessMuck(ctx, gameID, user.ID)
			return muckErr
		})
	case "stats":
		var board *statistics.Leaderboard
		err = b.withTable(i, func(gameID string) error {
			var statsErr error
			board, statsErr = b.stats.GetLeaderboard(ctx, gameID, 0)
			return statsErr
		})
		if err == nil {
			b.respond(s, i, formatLeaderboard(board))
			return
		}
	default:
		return
	}

	if err != nil {
		b.respondError(s, i, err)
		return
	}
	b.respond(s, i, acknowledgement(sub.Name, user.Username))
}

func (b *Bot) handleOpen(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	params := table.CreateGameParams{
		Variant:    stringOption(opts, "variant"),
		Ante:       intOptionValue(opts, "ante"),
		SmallBlind: intOptionValue(opts, "small-blind"),
		BigBlind:   intOptionValue(opts, "big-blind"),
		BringIn:    intOptionValue(opts, "bring-in"),
		MinBet:     intOptionValue(opts, "min-bet"),
		MaxBet:     intOptionValue(opts, "max-bet"),
	}
	game, err := b.tables.CreateGame(ctx, params)
	if err != nil {
		return err
	}
	b.bindTable(i.ChannelID, game.ID)
	return nil
}

// withTable resolves the channel's table before running fn
func (b *Bot) withTable(i *discordgo.InteractionCreate, fn func(gameID string) error) error {
	gameID, ok := b.tableFor(i.ChannelID)
	if !ok {
		return types.NewGameError(types.ErrGameNotFound, "No table is open in this channel; use /cards open")
	}
	return fn(gameID)
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.logger.Warn("Failed to respond to interaction: %v", err)
	}
}

func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := "Something went wrong at the table."
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		content = gameErr.Message
	}
	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		b.logger.Warn("Failed to respond to interaction: %v", respondErr)
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func intOptionValue(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	if opt, ok := opts[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

func actionType(sub string) entities.ActionType {
	switch sub {
	case "check":
		return entities.ActionCheck
	case "call":
		return entities.ActionCall
	case "fold":
		return entities.ActionFold
	case "allin":
		return entities.ActionAllIn
	case "bet":
		return entities.ActionBet
	default:
		return entities.ActionRaise
	}
}

// parseCardPositions turns a "1,3,5" style list into zero-based card indices
func parseCardPositions(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' '
	})
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		pos, err := strconv.Atoi(part)
		if err != nil || pos < 1 {
			return nil, types.NewGameError(types.ErrInvalidCardIndex,
				fmt.Sprintf("%q is not a card position", part))
		}
		indices = append(indices, pos-1)
	}
	return indices, nil
}

func acknowledgement(sub, username string) string {
	switch sub {
	case "open":
		return fmt.Sprintf("%s opened a table. Take a seat with /cards join.", username)
	case "join":
		return fmt.Sprintf("%s takes a seat.", username)
	case "deal":
		return "Shuffling up."
	case "leave":
		return fmt.Sprintf("%s leaves the table.", username)
	case "draw":
		return fmt.Sprintf("%s draws.", username)
	case "stay":
		return fmt.Sprintf("%s stays.", username)
	case "drop":
		return fmt.Sprintf("%s drops.", username)
	case "show":
		return fmt.Sprintf("%s shows.", username)
	case "muck":
		return fmt.Sprintf("%s mucks.", username)
	default:
		return fmt.Sprintf("%s: %s.", username, sub)
	}
}
