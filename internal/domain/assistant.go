package domain

// AssistantReply — ответ плавающего ассистента. Всегда берется из фикстур.
type AssistantReply struct {
	Message     string   `json:"message"`
	Link        string   `json:"link,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AssistantTopic связывает ключевые слова с подсказкой и разделом консоли.
type AssistantTopic struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Reply    string   `json:"reply" yaml:"reply"`
	Path     string   `json:"path" yaml:"path"`
}

type Assistant struct {
	Greeting    string           `json:"greeting" yaml:"greeting"`
	Suggestions []string         `json:"suggestions" yaml:"suggestions"`
	Topics      []AssistantTopic `json:"topics" yaml:"topics"`
}
