package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DBPath         string
	MigrationsPath string
	FrontendURL    string

	Regulator Regulator
}

// Regulator - настройки ночного задания термостатов.
type Regulator struct {
	Hour          int
	DayOfWeek     string // поле дня недели cron: "*", "1-5", "MON-FRI"
	LocationsFile string
	ProtocolsDir  string
	HTTPTimeout   int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DBPath:         getEnv("PLANNER_DB_PATH", "./data/planner.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations/001_init_planner.sql"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),

		Regulator: Regulator{
			Hour:          getEnvAsInt("REGULATOR_HOUR", 22),
			DayOfWeek:     getEnv("REGULATOR_DAY_OF_WEEK", "*"),
			LocationsFile: getEnv("REGULATOR_LOCATIONS_FILE", "./regulator.yaml"),
			ProtocolsDir:  getEnv("REGULATOR_PROTOCOLS_DIR", "./protocols"),
			HTTPTimeout:   getEnvAsInt("REGULATOR_HTTP_TIMEOUT", 10),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
