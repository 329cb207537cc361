package domain

type ProjectSummary struct {
	TotalProjects       int `json:"total_projects" yaml:"total_projects"`
	CompletedMigrations int `json:"completed_migrations" yaml:"completed_migrations"`
	InProgress          int `json:"in_progress" yaml:"in_progress"`
	Planned             int `json:"planned" yaml:"planned"`
	TotalCostSaved      int `json:"total_cost_saved" yaml:"total_cost_saved"`
	AverageDowntime     int `json:"average_downtime" yaml:"average_downtime"`
}

type MigrationProgress struct {
	Project  string `json:"project" yaml:"project"`
	Progress int    `json:"progress" yaml:"progress"`
	Status   string `json:"status" yaml:"status"`
}

// CostPoint — месячная точка сравнения затрат (тыс.).
type CostPoint struct {
	Month      string `json:"month" yaml:"month"`
	Legacy     int    `json:"legacy" yaml:"legacy"`
	Modernized int    `json:"modernized" yaml:"modernized"`
	Savings    int    `json:"savings" yaml:"savings"`
}

type SecurityImprovement struct {
	Metric string `json:"metric" yaml:"metric"`
	Before int    `json:"before" yaml:"before"`
	After  int    `json:"after" yaml:"after"`
}

type Report struct {
	Title  string `json:"title" yaml:"title"`
	Type   string `json:"type" yaml:"type"`
	Date   string `json:"date" yaml:"date"`
	Status string `json:"status" yaml:"status"` // Published, Draft
}

type Reports struct {
	Summary                ProjectSummary        `json:"summary" yaml:"summary"`
	MigrationProgress      []MigrationProgress   `json:"migration_progress" yaml:"migration_progress"`
	CostAnalysis           []CostPoint           `json:"cost_analysis" yaml:"cost_analysis"`
	TechnologyDistribution []Slice               `json:"technology_distribution" yaml:"technology_distribution"`
	SecurityImprovements   []SecurityImprovement `json:"security_improvements" yaml:"security_improvements"`
	RecentReports          []Report              `json:"recent_reports" yaml:"recent_reports"`
}
