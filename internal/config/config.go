package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries all environment-driven settings
type Config struct {
	Port string

	// Hospital details used in replies and staff alerts
	HospitalName    string
	HospitalPhone   string
	HospitalAddress string
	StaffNumber     string

	// Conversation engine
	SessionTTL time.Duration
	SlotWidth  time.Duration

	// External services
	GroqAPIKey  string
	GroqModel   string
	AdminToken  string
	VerifyToken string

	UseMemoryStore bool
}

// Load reads configuration from environment variables with defaults.
// Call godotenv.Load before this in local development.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		HospitalName:    getEnv("HOSPITAL_NAME", "RPL Hospital"),
		HospitalPhone:   getEnv("HOSPITAL_PHONE", "+91-9999999999"),
		HospitalAddress: getEnv("HOSPITAL_ADDRESS", "Baidaula Chauraha, Bansi Road, Dumariyaganj"),
		StaffNumber:     os.Getenv("HOSPITAL_NOTIFICATION_NUMBER"),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		SlotWidth:       time.Duration(getEnvInt("SLOT_WIDTH_MINUTES", 10)) * time.Minute,
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
		VerifyToken:     os.Getenv("WEBHOOK_VERIFY_TOKEN"),
		UseMemoryStore:  os.Getenv("USE_MEMORY_STORE") == "true",
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
