package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/rajivgeraev/skillswap-gateway/internal/cache"
	"github.com/rajivgeraev/skillswap-gateway/internal/config"
	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/auth"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/cloudinary"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/exchange"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/favorite"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/profile"
	"github.com/rajivgeraev/skillswap-gateway/internal/services/skill"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
	"github.com/rajivgeraev/skillswap-gateway/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Подключаемся к Redis: черный список сессий и кэш проверок статуса.
	// Без Redis шлюз работает, но logout не отзывает сессии
	var rdb *redis.Client
	var blacklist *cache.TokenBlacklist
	if cfg.RedisURL != "" {
		var err error
		rdb, err = cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Ошибка подключения к Redis: %v", err)
		}
		defer rdb.Close()
		blacklist = cache.NewTokenBlacklist(rdb)
	} else {
		log.Println("⚠️ REDIS_URL не задан: отзыв сессий и кэш статусов выключены")
	}

	// Клиент основного API SkillSwap
	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout).
		WithLimiter(rate.NewLimiter(rate.Limit(50), 100))

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap Gateway",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, api, blacklist)

	// Интерфейсы ревокера заполняются только при живом Redis
	var revoker middleware.TokenRevoker
	var wsRevoker websocket.SessionRevoker
	if blacklist != nil {
		revoker = blacklist
		wsRevoker = blacklist
	}
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService(), revoker)

	wsManager := websocket.NewManager()
	defer wsManager.Shutdown()

	exchangeService := exchange.NewExchangeService(api, wsManager, rdb)
	skillService := skill.NewSkillService(api)
	profileService := profile.NewProfileService(api)
	favoriteService := favorite.NewFavoriteService(api)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Регистрируем маршруты
	authService.SetupRoutes(app, authMiddleware)
	exchangeService.SetupRoutes(app, authMiddleware)
	skillService.SetupRoutes(app, authMiddleware)
	profileService.SetupRoutes(app, authMiddleware)
	favoriteService.SetupRoutes(app, authMiddleware)
	cloudinaryService.SetupRoutes(app, authMiddleware)

	// WebSocket события живут на отдельном слушателе
	go func() {
		log.Printf("✅ WebSocket сервер запущен на %s", cfg.WSListenAddr)
		if err := websocket.ListenAndServe(cfg.WSListenAddr, wsManager, authService.GetJWTService(), wsRevoker); err != nil {
			log.Fatalf("❌ Ошибка WebSocket сервера: %v", err)
		}
	}()

	// Запускаем сервер
	log.Printf("✅ SkillSwap Gateway запущен на %s", cfg.ListenAddr)
	log.Fatal(app.Listen(cfg.ListenAddr))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
