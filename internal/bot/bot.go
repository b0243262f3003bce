package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/verdania/internal/database"
	"github.com/example/verdania/internal/energy"
	"github.com/example/verdania/internal/fog"
	"github.com/example/verdania/internal/mission"
	"github.com/example/verdania/internal/scheduler"
	"github.com/example/verdania/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// activeMission tracks a user's mission in progress
type activeMission struct {
	mission    *mission.Mission
	currentIdx int
}

// Bot represents the Telegram bot application
type Bot struct {
	api       *tgbotapi.BotAPI
	config    *BotConfig
	scheduler *scheduler.Scheduler
	missions  map[int64]*activeMission
}

// NewBot creates a new bot instance
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	b := &Bot{
		api:      api,
		config:   ConfigFromEnv(),
		missions: make(map[int64]*activeMission),
	}
	b.scheduler = scheduler.New(b)
	return b, nil
}

// Start begins processing Telegram updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.scheduler.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(update.Message)
			} else if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

// Stop shuts down update processing and scheduled jobs
func (b *Bot) Stop(ctx context.Context) error {
	b.scheduler.Stop()
	b.api.StopReceivingUpdates()
	return nil
}

// SendFogReport implements scheduler.Notifier
func (b *Bot) SendFogReport(userID int64, critical, total int) error {
	text := fmt.Sprintf("The fog is returning: %d tiles need review.", total)
	if critical > 0 {
		text = fmt.Sprintf("The fog is returning: %d tiles need review (%d critical!).", total, critical)
	}
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.api.Send(msg)
	return err
}

// director assembles the per-user mission director over the database-backed
// stores
func (b *Bot) director(userID int64) *mission.Director {
	budget := energy.NewBudget(database.NewEnergyRepository(userID), b.config.RegenInterval)
	reviews := fog.NewReviewScheduler(database.NewMasteryRepository(userID))
	answers := database.NewAnswerEventRepository(userID)
	return mission.NewDirector(userID, budget, reviews, answers)
}

// handleMessage routes an incoming message to its command handler
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}

	userID := msg.From.ID
	var err error

	switch msg.Command() {
	case "start":
		err = b.handleStart(msg)
	case "learn":
		err = b.handleMissionStart(userID, mission.Learn)
	case "bridge":
		err = b.handleMissionStart(userID, mission.Bridge)
	case "review":
		err = b.handleMissionStart(userID, mission.Review)
	case "due":
		err = b.handleDue(userID)
	case "energy":
		err = b.handleEnergy(userID)
	case "help":
		err = b.reply(userID, "Commands: /learn /bridge /review /due /energy")
	default:
		err = b.reply(userID, "Unknown command. Try /help.")
	}

	if err != nil {
		log.Printf("Error handling /%s for user %d: %v", msg.Command(), userID, err)
	}
}

// handleStart registers the user and hands them a full energy pool
func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	userID := msg.From.ID
	userRepo := database.NewUserRepository()

	user, err := userRepo.GetByTelegramID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &models.User{
			ID:                  userID,
			Username:            msg.From.UserName,
			FirstName:           msg.From.FirstName,
			NotificationEnabled: true,
			NotificationHour:    9,
			TilesPerMission:     b.config.TilesPerMission,
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}
	}
	if _, err := database.NewEnergyRepository(userID).EnsurePool(b.config.EnergyMax, time.Now()); err != nil {
		return err
	}
	return b.reply(userID, "Welcome to Verdania. The fog awaits. Send /learn to claim your first tiles.")
}

// handleMissionStart charges the budget and sends the first question
func (b *Bot) handleMissionStart(userID int64, kind mission.Kind) error {
	now := time.Now()
	d := b.director(userID)

	var tiles []string
	if kind != mission.Review {
		user, err := database.NewUserRepository().GetByTelegramID(userID)
		if err != nil {
			return err
		}
		limit := b.config.TilesPerMission
		if user != nil && user.TilesPerMission > 0 {
			limit = user.TilesPerMission
		}
		unseen, err := database.NewTileRepository().GetUnseenForUser(userID, limit)
		if err != nil {
			return err
		}
		for _, t := range unseen {
			tiles = append(tiles, t.ID)
		}
		if len(tiles) == 0 {
			return b.reply(userID, "No new tiles left to learn. Try /review.")
		}
	}

	m, err := d.Start(kind, tiles, now)
	if errors.Is(err, energy.ErrInsufficient) {
		// Expected outcome, not an error-level event
		return b.reply(userID, fmt.Sprintf("Not enough neural charges (need %d). They regenerate over time, or /review for free.", kind.EnergyCost()))
	}
	if err != nil {
		return err
	}
	if len(m.Tiles) == 0 {
		return b.reply(userID, "No fog on the map, nothing to review right now.")
	}

	b.missions[userID] = &activeMission{mission: m}
	return b.sendQuestion(userID)
}

// sendQuestion asks about the current tile of the user's active mission
func (b *Bot) sendQuestion(userID int64) error {
	active, ok := b.missions[userID]
	if !ok {
		return nil
	}
	unitID := active.mission.Tiles[active.currentIdx]

	title := unitID
	if tile, err := database.NewTileRepository().GetByID(unitID); err == nil {
		title = tile.Title
	}

	text := fmt.Sprintf("Tile %d/%d: %s\nDid you recall it?",
		active.currentIdx+1, len(active.mission.Tiles), title)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{
		{Text: "Got it", CallbackData: "answer:" + unitID + ":1"},
		{Text: "Fogged", CallbackData: "answer:" + unitID + ":0"},
	}})
	_, err := b.api.Send(msg)
	return err
}

// handleCallback processes inline keyboard answers
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	defer func() {
		callback := tgbotapi.NewCallback(query.ID, "")
		if _, err := b.api.Request(callback); err != nil {
			log.Printf("Error acking callback: %v", err)
		}
	}()

	parts := strings.Split(query.Data, ":")
	if len(parts) != 3 || parts[0] != "answer" {
		return
	}
	userID := query.From.ID
	unitID := parts[1]
	correct := parts[2] == "1"

	if err := b.handleAnswer(userID, query.ID, unitID, correct); err != nil {
		log.Printf("Error handling answer for user %d: %v", userID, err)
	}
}

// handleAnswer records one answer and advances or finishes the mission.
// The Telegram callback query id doubles as the de-duplication request id,
// so a re-delivered callback never applies the transition twice.
func (b *Bot) handleAnswer(userID int64, requestID, unitID string, correct bool) error {
	active, ok := b.missions[userID]
	if !ok {
		return b.reply(userID, "No mission in progress. Start one with /learn or /review.")
	}

	rec, applied, err := b.director(userID).SubmitAnswer(active.mission, requestID, unitID, correct, nil, time.Now())
	if err != nil {
		return err
	}
	if !applied {
		// Re-delivered callback: the answer was already counted, so the
		// mission must not advance a second time.
		return nil
	}

	tier := fog.TierFor(rec, time.Now())
	feedback := fmt.Sprintf("Next review in %.0f day(s). Fog: %s.", rec.IntervalDays, tier)
	if !correct {
		feedback = "The fog thickens. This tile comes back tomorrow."
	}
	if err := b.reply(userID, feedback); err != nil {
		return err
	}

	active.currentIdx++
	if active.currentIdx >= len(active.mission.Tiles) {
		delete(b.missions, userID)
		return b.reply(userID, "Mission complete! Check /due to see what the fog claims next.")
	}
	return b.sendQuestion(userID)
}

// handleDue reports the user's review queue
func (b *Bot) handleDue(userID int64) error {
	reviews := fog.NewReviewScheduler(database.NewMasteryRepository(userID))
	due, err := reviews.ListDue(time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return b.reply(userID, "The map is clear, nothing needs review.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tiles need review:\n", len(due))
	for i, u := range due {
		if i >= 10 {
			fmt.Fprintf(&sb, "...and %d more\n", len(due)-i)
			break
		}
		fmt.Fprintf(&sb, "• %s [%s]\n", u.UnitID, u.Tier)
	}
	return b.reply(userID, sb.String())
}

// handleEnergy reports the user's pool after regeneration
func (b *Bot) handleEnergy(userID int64) error {
	budget := energy.NewBudget(database.NewEnergyRepository(userID), b.config.RegenInterval)
	pool, err := budget.Tick(time.Now())
	if errors.Is(err, energy.ErrNotFound) {
		return b.reply(userID, "No energy pool yet, send /start first.")
	}
	if err != nil {
		return err
	}
	return b.reply(userID, fmt.Sprintf("Neural charges: %d/%d", pool.Current, pool.Max))
}

func (b *Bot) reply(userID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// Token returns the configured bot token from the environment
func Token() (string, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return "", fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	return token, nil
}
