package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"courtbook/internal/model"
	"courtbook/internal/mq"
	"courtbook/internal/repository"
	"courtbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
	"go.uber.org/zap"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// bookingError переводит ошибку ядра в сообщение для пользователя.
func bookingError(err error) string {
	switch {
	case errors.Is(err, model.ErrTimeConflict):
		return "Этот слот уже занят. Выберите другое время."
	case errors.Is(err, model.ErrCourtUnavailable):
		return "Корт сейчас недоступен для бронирования."
	case errors.Is(err, model.ErrInvalidTimeRange):
		return "Время окончания должно быть позже времени начала."
	case errors.Is(err, model.ErrValidation):
		return "Проверьте формат: ГГГГ-ММ-ДД ЧЧ:ММ ЧЧ:ММ."
	case errors.Is(err, model.ErrCourtNotFound):
		return "Корт не найден."
	case errors.Is(err, model.ErrAlreadyCancelled):
		return "Бронь уже отменена."
	case errors.Is(err, model.ErrInvalidTransition):
		return "Эту бронь уже нельзя отменить."
	}
	return "Не удалось выполнить операцию, попробуйте позже."
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Подключение к базе данных
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		env("DB_HOST", "db"), env("DB_PORT", "5432"),
		os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"),
	)
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		sugar.Fatalf("DB connection failed: %v", err)
	}

	var publisher service.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		p, err := mq.NewAMQPPublisher(amqpURL, env("EVENTS_QUEUE", mq.DefaultQueue))
		if err != nil {
			sugar.Fatalf("Не удалось подключиться к RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// Инициализация репозиториев и сервисов
	userRepo := repository.NewUserRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	courtTypeRepo := repository.NewCourtTypeRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	userService := service.NewUserService(userRepo)
	courtService := service.NewCourtService(courtRepo, courtTypeRepo)
	availabilityService := service.NewAvailabilityService(reservationRepo)
	reservationService := service.NewReservationService(
		reservationRepo, courtRepo, userRepo, availabilityService, publisher)

	// Инициализация Telegram Bot API
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		sugar.Fatal("Не указан токен бота (BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		sugar.Fatalf("Ошибка инициализации бота: %v", err)
	}
	sugar.Infof("Запущен бот %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	ctx := context.Background()

	// Состояния диалогов
	pendingBooking := make(map[int64]int) // telegramID -> CourtID
	pendingFree := make(map[int64]int)    // telegramID -> CourtID

	for update := range updates {
		// --- CallbackQuery (inline buttons) ---
		if cq := update.CallbackQuery; cq != nil {
			bot.Request(tgbotapi.NewCallback(cq.ID, ""))

			fromID := cq.From.ID
			data := cq.Data

			switch {
			// Карточка корта
			case strings.HasPrefix(data, "CRT_"):
				courtID, _ := strconv.Atoi(strings.TrimPrefix(data, "CRT_"))
				court, err := courtService.Get(ctx, courtID)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(fromID, bookingError(err)))
					continue
				}
				text := fmt.Sprintf(
					"*%s*\n%s\nВместимость: %d игроков\nЦена: %s/час",
					court.Name, court.Description, court.Capacity, court.HourlyRate.StringFixed(2),
				)
				msg := tgbotapi.NewMessage(fromID, text)
				msg.ParseMode = "Markdown"
				btnFree := tgbotapi.NewInlineKeyboardButtonData("Свободные слоты", fmt.Sprintf("FREE_%d", court.ID))
				btnBook := tgbotapi.NewInlineKeyboardButtonData("Забронировать", fmt.Sprintf("BOOK_%d", court.ID))
				msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btnFree, btnBook))
				bot.Send(msg)

			// Запрос свободных слотов: ждем дату
			case strings.HasPrefix(data, "FREE_"):
				courtID, _ := strconv.Atoi(strings.TrimPrefix(data, "FREE_"))
				pendingFree[fromID] = courtID
				bot.Send(tgbotapi.NewMessage(fromID, "Отправьте дату (ГГГГ-ММ-ДД):"))

			// Начать бронирование: ждем дату и время
			case strings.HasPrefix(data, "BOOK_"):
				courtID, _ := strconv.Atoi(strings.TrimPrefix(data, "BOOK_"))
				pendingBooking[fromID] = courtID
				bot.Send(tgbotapi.NewMessage(fromID, "Отправьте дату и время: ГГГГ-ММ-ДД ЧЧ:ММ ЧЧ:ММ"))

			// Отмена брони
			case strings.HasPrefix(data, "CANCEL_"):
				id, err := uuid.Parse(strings.TrimPrefix(data, "CANCEL_"))
				if err != nil {
					continue
				}
				if _, err := reservationService.Cancel(ctx, id); err != nil {
					bot.Send(tgbotapi.NewMessage(fromID, bookingError(err)))
				} else {
					bot.Send(tgbotapi.NewMessage(fromID, "Бронь отменена, слот освобожден."))
				}
			}

			continue
		}

		// --- Обычные сообщения ---
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID
		tgID := msg.From.ID

		// Команды
		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				user, err := userService.AuthTelegram(ctx, tgID, msg.From.FirstName, msg.From.LastName)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, "Ошибка регистрации."))
				} else {
					bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
						"Здравствуйте, %s! /courts — список кортов, /my — ваши брони.", user.Name)))
				}

			case "courts":
				courts, err := courtService.List(ctx, 0, model.CourtAvailable)
				if err != nil || len(courts) == 0 {
					bot.Send(tgbotapi.NewMessage(chatID, "Доступных кортов нет."))
					continue
				}
				btns := make([]tgbotapi.InlineKeyboardButton, len(courts))
				for i, court := range courts {
					btns[i] = tgbotapi.NewInlineKeyboardButtonData(court.Name, fmt.Sprintf("CRT_%d", court.ID))
				}
				reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("Доступно кортов: %d", len(courts)))
				reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btns...))
				bot.Send(reply)

			case "my":
				user, err := userService.AuthTelegram(ctx, tgID, msg.From.FirstName, msg.From.LastName)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, "Ошибка авторизации."))
					continue
				}
				reservations, err := reservationService.List(ctx, user.ID, 0, "")
				if err != nil || len(reservations) == 0 {
					bot.Send(tgbotapi.NewMessage(chatID, "У вас нет броней."))
					continue
				}
				for _, r := range reservations {
					text := fmt.Sprintf("%s %s-%s, статус: %s, цена: %s",
						r.Date, r.StartTime, r.EndTime, r.Status, r.TotalPrice.StringFixed(2))
					out := tgbotapi.NewMessage(chatID, text)
					if r.Active() {
						btn := tgbotapi.NewInlineKeyboardButtonData("Отменить", "CANCEL_"+r.ID.String())
						out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
					}
					bot.Send(out)
				}
			}
			continue
		}

		// Обработка «ожидающих» состояний

		// Свободные слоты на дату
		if courtID, ok := pendingFree[tgID]; ok {
			date := strings.TrimSpace(msg.Text)
			delete(pendingFree, tgID)

			if _, err := model.ParseDate(date); err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Некорректная дата, нужен формат ГГГГ-ММ-ДД."))
				continue
			}
			free, err := availabilityService.FreeSlots(ctx, courtID, date)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, bookingError(err)))
				continue
			}
			if len(free) == 0 {
				bot.Send(tgbotapi.NewMessage(chatID, "Свободных слотов нет."))
				continue
			}
			lines := make([]string, len(free))
			for i, slot := range free {
				lines[i] = fmt.Sprintf("%s — %s", slot.StartTime, slot.EndTime)
			}
			bot.Send(tgbotapi.NewMessage(chatID, "Свободно:\n"+strings.Join(lines, "\n")))
			continue
		}

		// Детали бронирования: "ГГГГ-ММ-ДД ЧЧ:ММ ЧЧ:ММ"
		if courtID, ok := pendingBooking[tgID]; ok {
			parts := strings.Fields(msg.Text)
			delete(pendingBooking, tgID)

			if len(parts) != 3 {
				bot.Send(tgbotapi.NewMessage(chatID, "Нужен формат: ГГГГ-ММ-ДД ЧЧ:ММ ЧЧ:ММ"))
				continue
			}
			user, err := userService.AuthTelegram(ctx, tgID, msg.From.FirstName, msg.From.LastName)
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Ошибка авторизации."))
				continue
			}
			res, err := reservationService.Create(ctx, model.CreateReservation{
				UserID:    user.ID,
				CourtID:   courtID,
				Date:      parts[0],
				StartTime: parts[1],
				EndTime:   parts[2],
			})
			if err != nil {
				bot.Send(tgbotapi.NewMessage(chatID, bookingError(err)))
				continue
			}
			bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"Бронь создана: %s %s-%s, цена %s. Ожидает подтверждения.",
				res.Date, res.StartTime, res.EndTime, res.TotalPrice.StringFixed(2))))
			continue
		}

		bot.Send(tgbotapi.NewMessage(chatID, "Команды: /courts — список кортов, /my — ваши брони."))
	}
}
