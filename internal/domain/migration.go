package domain

type MigrationEstimate struct {
	TotalCost         int    `json:"total_cost" yaml:"total_cost"`
	TotalEffort       int    `json:"total_effort" yaml:"total_effort"`             // месяцы
	EstimatedDowntime int    `json:"estimated_downtime" yaml:"estimated_downtime"` // часы
	OverallRisk       string `json:"overall_risk" yaml:"overall_risk"`
	Confidence        int    `json:"confidence" yaml:"confidence"`
}

// CostEstimate — оценка миграции отдельного компонента.
type CostEstimate struct {
	Component  string `json:"component" yaml:"component"`
	Effort     int    `json:"effort" yaml:"effort"`
	Cost       int    `json:"cost" yaml:"cost"`
	Downtime   int    `json:"downtime" yaml:"downtime"`
	Risk       string `json:"risk" yaml:"risk"`
	Complexity string `json:"complexity" yaml:"complexity"`
}

// Slice — сегмент круговой диаграммы.
type Slice struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Color string `json:"color" yaml:"color"`
}

type TimelinePoint struct {
	Month    string `json:"month" yaml:"month"`
	Progress int    `json:"progress" yaml:"progress"`
	Cost     int    `json:"cost" yaml:"cost"`
}

// EffortPoint — точка графика трудозатрат, cost в тысячах.
type EffortPoint struct {
	Name   string  `json:"name"`
	Effort int     `json:"effort"`
	Cost   float64 `json:"cost"`
}

type MigrationEstimator struct {
	Estimate         MigrationEstimate `json:"estimate" yaml:"estimate"`
	Components       []CostEstimate    `json:"components" yaml:"components"`
	RiskDistribution []Slice           `json:"risk_distribution" yaml:"risk_distribution"`
	Timeline         []TimelinePoint   `json:"timeline" yaml:"timeline"`
}

// EffortSeries строит серию графика из таблицы компонентов.
func (m MigrationEstimator) EffortSeries() []EffortPoint {
	out := make([]EffortPoint, 0, len(m.Components))
	for _, c := range m.Components {
		out = append(out, EffortPoint{
			Name:   c.Component,
			Effort: c.Effort,
			Cost:   float64(c.Cost) / 1000,
		})
	}
	return out
}
