package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	UploadDir      string
	AllowedOrigins []string
	JWTSecret      string
	ChatAPIURL     string
	ChatAPIKey     string
	RateLimit      int
	RateWindow     time.Duration
}

// Load reads configuration from the environment. Every value has a default
// suitable for local development; production deployments override through env
// variables (or a .env file loaded before this runs).
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGODB_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DB", "ecowall")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CHAT_API_URL", "")
	v.SetDefault("CHAT_API_KEY", "")
	v.SetDefault("RATE_LIMIT", 60)
	v.SetDefault("RATE_WINDOW", "1m")

	origins := []string{}
	for _, o := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Port:           v.GetString("PORT"),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDB:        v.GetString("MONGO_DB"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		AllowedOrigins: origins,
		JWTSecret:      v.GetString("JWT_SECRET"),
		ChatAPIURL:     v.GetString("CHAT_API_URL"),
		ChatAPIKey:     v.GetString("CHAT_API_KEY"),
		RateLimit:      v.GetInt("RATE_LIMIT"),
		RateWindow:     v.GetDuration("RATE_WINDOW"),
	}
}
