package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qr-attendance/internal/repository"
	"qr-attendance/internal/services"
)

var (
	bot            *tgbotapi.BotAPI
	targetChatID   int64
	attendanceRepo repository.AttendanceRepository
)

// Init initializes the Telegram Bot
func Init(token string, authorizedChatIDStr string) error {
	var err error
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}

	bot.Debug = false
	log.Printf("Authorized on account %s", bot.Self.UserName)

	if authorizedChatIDStr != "" {
		id, err := strconv.ParseInt(authorizedChatIDStr, 10, 64)
		if err == nil {
			targetChatID = id
		}
	}

	return nil
}

// SetAttendanceRepository wires the repository the /today command reads from
func SetAttendanceRepository(repo repository.AttendanceRepository) {
	attendanceRepo = repo
}

// StartPolling starts the update loop
func StartPolling() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
			msg.ParseMode = "Markdown"

			switch update.Message.Command() {
			case "start":
				msg.Text = "📋 *QR Attendance*\n\n" +
					"*Commands:*\n" +
					"/today - today's roster\n" +
					"/getid - chat ID"

			case "getid":
				msg.Text = fmt.Sprintf("Chat ID: `%d`", update.Message.Chat.ID)

			case "today":
				msg.Text = todayRoster()

			default:
				msg.Text = "Unknown command, use /start"
			}

			if _, err := bot.Send(msg); err != nil {
				log.Printf("Bot send error: %v", err)
			}
		}
	}()
}

// todayRoster lists today's check-ins with their lateness marks
func todayRoster() string {
	if attendanceRepo == nil {
		return "Roster unavailable"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := attendanceRepo.ListAll(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	var lines []string
	for _, rec := range records {
		if services.DateBucket(rec.Date) != today {
			continue
		}
		mark := "✅"
		if services.IsLate(rec.Timestamp) {
			mark = "⚠️"
		}
		when := rec.Timestamp
		if t, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
			when = t.In(services.ManilaLocation()).Format("15:04:05")
		}
		lines = append(lines, fmt.Sprintf("%s %s - `%s`", mark, rec.Name, when))
	}

	if len(lines) == 0 {
		return "No check-ins today"
	}
	return fmt.Sprintf("📋 *Today (%s):*\n%s", today, strings.Join(lines, "\n"))
}

// SendNotification sends a message to the authorized admin chat
func SendNotification(message string) {
	if bot == nil || targetChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(targetChatID, message)
	msg.ParseMode = "Markdown"
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Bot send error: %v", err)
	}
}
