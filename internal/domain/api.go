package domain

// Endpoint — иллюстративный REST-маршрут legacy-системы.
type Endpoint struct {
	Method      string   `json:"method" yaml:"method"`
	Path        string   `json:"path" yaml:"path"`
	Description string   `json:"description" yaml:"description"`
	Parameters  []string `json:"parameters" yaml:"parameters"`
	Response    string   `json:"response" yaml:"response"`
}

// Key уникально идентифицирует маршрут в выборе (path у GET и PUT может совпадать).
func (e Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// CodeTab — вкладка сгенерированного кода (REST, GraphQL).
type CodeTab struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Snippets []string `json:"snippets" yaml:"snippets"`
}

type APIGenerator struct {
	Endpoints      []Endpoint `json:"endpoints" yaml:"endpoints"`
	DefaultPackage string     `json:"default_package" yaml:"default_package"`
	DefaultVersion string     `json:"default_version" yaml:"default_version"`
	Tabs           []CodeTab  `json:"tabs" yaml:"tabs"`
}
