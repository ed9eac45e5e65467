package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	SupabaseURL      string
	SupabaseKey      string
	LeaderboardTable string
	LocalBoardPath   string

	TickHz     int
	LogLevel   string
	SessionTTL time.Duration
}

// Load reads the environment, after merging in a .env file when one exists.
// Variables already set take precedence over the file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		LeaderboardTable: getEnv("LEADERBOARD_TABLE", "leaderboard"),
		LocalBoardPath:   os.Getenv("LOCAL_LEADERBOARD_PATH"),
		TickHz:           getEnvInt("TICK_HZ", 60),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
	if cfg.TickHz <= 0 {
		cfg.TickHz = 60
	}
	return cfg
}

// RemoteLeaderboard reports whether both Supabase credentials are present.
func (c Config) RemoteLeaderboard() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
