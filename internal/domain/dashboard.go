package domain

// Stat — карточка сводки на главной странице.
type Stat struct {
	Title  string `json:"title" yaml:"title"`
	Value  string `json:"value" yaml:"value"`
	Change string `json:"change" yaml:"change"`
	Trend  string `json:"trend" yaml:"trend"` // up, down
	Icon   string `json:"icon" yaml:"icon"`
}

// Project — строка блока "Recent Projects".
type Project struct {
	Name     string `json:"name" yaml:"name"`
	Status   string `json:"status" yaml:"status"` // Complete, In Progress, Analyzing
	Progress int    `json:"progress" yaml:"progress"`
	Type     string `json:"type" yaml:"type"`
}

// QuickAction — ссылка быстрого перехода на инструмент.
type QuickAction struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	Icon  string `json:"icon" yaml:"icon"`
}

type Dashboard struct {
	Headline       string        `json:"headline" yaml:"headline"`
	Intro          string        `json:"intro" yaml:"intro"`
	Stats          []Stat        `json:"stats" yaml:"stats"`
	RecentProjects []Project     `json:"recent_projects" yaml:"recent_projects"`
	QuickActions   []QuickAction `json:"quick_actions" yaml:"quick_actions"`
}
