package domain

import "time"

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

type SecurityOverview struct {
	TotalVulnerabilities int       `json:"total_vulnerabilities" yaml:"total_vulnerabilities"`
	Critical             int       `json:"critical" yaml:"critical"`
	High                 int       `json:"high" yaml:"high"`
	Medium               int       `json:"medium" yaml:"medium"`
	Low                  int       `json:"low" yaml:"low"`
	SecurityScore        int       `json:"security_score" yaml:"security_score"`
	LastScan             time.Time `json:"last_scan" yaml:"last_scan"`
}

type Vulnerability struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Severity    Severity `json:"severity" yaml:"severity"`
	CVSSScore   float64  `json:"cvss_score" yaml:"cvss_score"`
	Category    string   `json:"category" yaml:"category"`
	Component   string   `json:"component" yaml:"component"`
	Description string   `json:"description" yaml:"description"`
	Remediation string   `json:"remediation" yaml:"remediation"`
	Status      string   `json:"status" yaml:"status"` // Open, In Review, Fixed
}

type ComplianceCheck struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // Compliant, Partial, Non-Compliant
	Score  int    `json:"score" yaml:"score"`
}

type Recommendation struct {
	Priority    string `json:"priority" yaml:"priority"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Effort      string `json:"effort" yaml:"effort"`
}

type SecurityAnalyzer struct {
	Overview        SecurityOverview  `json:"overview" yaml:"overview"`
	Vulnerabilities []Vulnerability   `json:"vulnerabilities" yaml:"vulnerabilities"`
	Compliance      []ComplianceCheck `json:"compliance" yaml:"compliance"`
	Recommendations []Recommendation  `json:"recommendations" yaml:"recommendations"`
}
