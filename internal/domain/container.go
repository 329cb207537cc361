package domain

// Module — обнаруженный развертываемый модуль приложения.
type Module struct {
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Complexity   string   `json:"complexity" yaml:"complexity"`
	Status       string   `json:"status" yaml:"status"` // Ready, Requires Migration
}

type Containerizer struct {
	Modules   []Module `json:"modules" yaml:"modules"`
	Snippets  []string `json:"snippets" yaml:"snippets"`
	NextSteps []string `json:"next_steps" yaml:"next_steps"`
}
