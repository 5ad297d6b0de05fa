package main

import (
	"os"
	"path/filepath"

	"courtbook/internal/handler"
	"courtbook/internal/mq"
	"courtbook/internal/repository"
	"courtbook/internal/service"

	"github.com/gin-gonic/gin"
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

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Читаем параметры подключения к БД из переменных окружения
	dsn := "host=" + env("DB_HOST", "localhost") +
		" port=" + env("DB_PORT", "5432") +
		" user=" + os.Getenv("DB_USER") +
		" password=" + os.Getenv("DB_PASS") +
		" dbname=" + os.Getenv("DB_NAME") +
		" sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		sugar.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}

	// Выполняем миграции (если есть)
	files, err := filepath.Glob("migrations/*.sql")
	if err == nil {
		for _, file := range files {
			content, readErr := os.ReadFile(file)
			if readErr != nil {
				sugar.Errorf("Чтение миграции %s: %v", file, readErr)
				continue
			}
			tx, txErr := db.Begin()
			if txErr != nil {
				sugar.Errorf("Ошибка при инициации транзакции миграции: %v", txErr)
				continue
			}
			if _, execErr := tx.Exec(string(content)); execErr != nil {
				tx.Rollback()
				sugar.Errorf("Миграция %s завершилась ошибкой: %v", file, execErr)
				continue
			}
			tx.Commit()
			sugar.Infof("Миграция %s применена.", file)
		}
	}

	// Издатель событий броней. Необязателен: без AMQP_URL ядро работает,
	// просто без уведомлений.
	var publisher service.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		p, err := mq.NewAMQPPublisher(amqpURL, env("EVENTS_QUEUE", mq.DefaultQueue))
		if err != nil {
			sugar.Fatalf("Не удалось подключиться к RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	courtTypeRepo := repository.NewCourtTypeRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	// Инициализируем сервисы
	userService := service.NewUserService(userRepo)
	courtService := service.NewCourtService(courtRepo, courtTypeRepo)
	courtTypeService := service.NewCourtTypeService(courtTypeRepo)
	availabilityService := service.NewAvailabilityService(reservationRepo)
	reservationService := service.NewReservationService(
		reservationRepo, courtRepo, userRepo, availabilityService, publisher)

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(userService, courtService, courtTypeService, reservationService, availabilityService)
	router := gin.New()
	router.Use(handler.RequestLogger(logger), gin.Recovery())
	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", h.RegisterUser)
			users.GET("", h.ListUsers)
			users.GET("/:id", h.GetUser)
			users.PUT("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeactivateUser)
		}
		courtTypes := api.Group("/court-types")
		{
			courtTypes.GET("", h.ListCourtTypes)
			courtTypes.GET("/:id", h.GetCourtType)
			courtTypes.POST("", h.CreateCourtType)
			courtTypes.PUT("/:id", h.UpdateCourtType)
			courtTypes.DELETE("/:id", h.DeleteCourtType)
		}
		courts := api.Group("/courts")
		{
			courts.GET("", h.ListCourts)
			courts.GET("/:id", h.GetCourt)
			courts.POST("", h.CreateCourt)
			courts.PUT("/:id", h.UpdateCourt)
			courts.DELETE("/:id", h.DeleteCourt)
		}
		reservations := api.Group("/reservations")
		{
			reservations.GET("", h.ListReservations)
			reservations.GET("/availability", h.GetAvailability)
			reservations.GET("/:id", h.GetReservation)
			reservations.POST("", h.CreateReservation)
			reservations.PUT("/:id", h.UpdateReservation)
			reservations.PUT("/:id/status", h.UpdateReservationStatus)
			reservations.DELETE("/:id", h.CancelReservation)
		}
	}
	// Health-check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Запускаем HTTP-сервер
	if err := router.Run(":" + env("API_PORT", "8080")); err != nil {
		sugar.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
