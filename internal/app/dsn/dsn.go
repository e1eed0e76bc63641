package dsn

import "os"

const defaultPath = "food_catalog.db"

// FromEnv возвращает путь к файлу SQLite. База создаётся автоматически
// при первом запуске.
func FromEnv() string {
	if path := os.Getenv("DB_PATH"); path != "" {
		return path
	}
	return defaultPath
}
