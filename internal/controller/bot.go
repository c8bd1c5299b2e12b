package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// SalaryReporter источник отчёта о зарплате для бота
type SalaryReporter interface {
	SalaryByTelegram(ctx context.Context, tgID int64, start time.Time, end *time.Time) (service.SalaryReport, error)
}

// BotController Telegram бот для сотрудников
type BotController struct {
	bot    *bot.Bot
	salary SalaryReporter
	logger *zap.Logger
	now    func() time.Time
}

func NewBotController(botInstance *bot.Bot, salary SalaryReporter, logger *zap.Logger) *BotController {
	return &BotController{
		bot:    botInstance,
		salary: salary,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleStart)
	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && IsCommand(update.Message.Text, "/salary")
	}, c.HandleSalary)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "salary", Description: "💰 Зарплата за период"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// HandleStart обрабатывает команду /start
func (c *BotController) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	c.reply(ctx, b, update.Message.Chat.ID, "👋 Привет!\n\n"+
		"Команды для сотрудников:\n"+
		"/salary - зарплата за текущий месяц\n"+
		"/salary 2024-01-15 - за месяц с указанной даты\n"+
		"/salary 2024-01-01 2024-01-31 - за период")
}

// HandleSalary обрабатывает команду /salary [start] [end]
func (c *BotController) HandleSalary(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	start, end, err := ParseSalaryArgs(update.Message.Text, c.now())
	if err != nil {
		c.reply(ctx, b, chatID, "❌ "+err.Error())
		return
	}

	report, err := c.salary.SalaryByTelegram(ctx, update.Message.From.ID, start, end)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.reply(ctx, b, chatID, "❌ Вы не зарегистрированы как сотрудник.")
			return
		}
		if description, ok := service.Describe(err); ok {
			c.reply(ctx, b, chatID, "❌ "+description)
			return
		}
		c.logger.Error("Failed to calculate salary",
			zap.Int64("tg_id", update.Message.From.ID),
			zap.Error(err))
		c.reply(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	c.reply(ctx, b, chatID, SalaryText(report))
}

func (c *BotController) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		c.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// IsCommand проверяет, что первое слово сообщения это command,
// в том числе в форме /command@botname
func IsCommand(text, command string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return name == command
}

// ParseSalaryArgs разбирает аргументы команды /salary.
// Без аргументов период начинается с первого числа текущего месяца.
func ParseSalaryArgs(text string, now time.Time) (time.Time, *time.Time, error) {
	args := strings.Fields(text)
	if len(args) > 0 {
		args = args[1:]
	}

	switch len(args) {
	case 0:
		y, m, _ := now.UTC().Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), nil, nil
	case 1, 2:
		start, err := model.ParseTimestamp(args[0])
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("неверная дата %q, ожидается ГГГГ-ММ-ДД", args[0])
		}
		if len(args) == 1 {
			return start.Time, nil, nil
		}
		end, err := model.ParseTimestamp(args[1])
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("неверная дата %q, ожидается ГГГГ-ММ-ДД", args[1])
		}
		return start.Time, &end.Time, nil
	default:
		return time.Time{}, nil, errors.New("использование: /salary [начало] [конец]")
	}
}

// SalaryText форматирует отчёт для ответа в чат
func SalaryText(report service.SalaryReport) string {
	period := fmt.Sprintf("%s - %s",
		report.Start.Format("02.01.2006"),
		report.End.Format("02.01.2006"))

	if report.Salary.Equal(service.NoSalary) {
		return fmt.Sprintf("📭 За период %s занятий не найдено.", period)
	}
	return fmt.Sprintf("💰 Зарплата за период %s: %s ₽", period, report.Salary.String())
}
