package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config структура конфигурации шлюза
type Config struct {
	UpstreamBaseURL  string
	UpstreamTimeout  time.Duration
	JWTSecret        string
	TelegramBotToken string
	RedisURL         string
	CloudinaryConfig CloudinaryConfig
	ListenAddr       string
	WSListenAddr     string
	AppEnv           string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// LoadConfig загружает переменные из .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "skillswap_avatars"),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "skillswap"),
	}

	upstreamTimeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"))
	if err != nil {
		log.Printf("⚠️ Неверное значение UPSTREAM_TIMEOUT, используем 30s: %v", err)
		upstreamTimeout = 30 * time.Second
	}

	cfg := &Config{
		UpstreamBaseURL:  getEnv("UPSTREAM_BASE_URL", "http://localhost:4000/api"),
		UpstreamTimeout:  upstreamTimeout,
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		CloudinaryConfig: cloudinaryConfig,
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		WSListenAddr:     getEnv("WS_LISTEN_ADDR", ":8081"),
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("❌ Ошибка: Не задана обязательная переменная окружения JWT_SECRET")
	}

	return cfg
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
