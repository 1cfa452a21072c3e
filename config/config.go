package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Appwrite document store / identity provider
	AppwriteEndpoint string // e.g. https://syd.cloud.appwrite.io/v1
	AppwriteProject  string // project ID
	AppwriteKey      string // server API key (scripts only, optional)
	DatabaseID       string // attendance database
	CollectionID     string // attendance collection

	// Authorization
	AdminEmail string // always treated as admin regardless of prefs

	// Telegram Bot (optional, late check-in alerts)
	TelegramBotToken string
	AuthorizedChatID string

	// HTTP server
	ListenAddr string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("godotenv.Load() error: %v", err)
	}

	endpoint := os.Getenv("APPWRITE_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://syd.cloud.appwrite.io/v1"
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "joshuadignadice24@gmail.com"
	}

	return &Config{
		AppwriteEndpoint: endpoint,
		AppwriteProject:  os.Getenv("APPWRITE_PROJECT"),
		AppwriteKey:      os.Getenv("APPWRITE_API_KEY"),
		DatabaseID:       getEnv("APPWRITE_DATABASE_ID", "686db7ef003cad2f3703"),
		CollectionID:     getEnv("APPWRITE_COLLECTION_ID", "686dbed2001341193519"),
		AdminEmail:       adminEmail,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AuthorizedChatID: os.Getenv("AUTHORIZED_CHAT_ID"),
		ListenAddr:       addr,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
