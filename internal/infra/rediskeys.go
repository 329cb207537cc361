package infra

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "intellibridge"
)

// Ключи для Hash (состояние)
const (
	// RedisKeyPreferences — hash session_id -> theme
	RedisKeyPreferences = RedisNamespace + ":preferences:theme"
)

// Каналы для Pub/Sub
const (
	// RedisChannelEvents — события консоли для всех инстансов (theme.changed, action.changed)
	RedisChannelEvents = RedisNamespace + ":events"
)
