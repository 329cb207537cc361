package domain

// Dependency — зависимость, найденная "сканом".
type Dependency struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Risk    string `json:"risk" yaml:"risk"`
}

type ComplexityBreakdown struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// QualityMetric — одна шкала блока "Quality Metrics" (0-100).
type QualityMetric struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// ScanResults — фикстурный результат анализа кода. Не зависит от загруженных файлов.
type ScanResults struct {
	TotalFiles     int                 `json:"total_files" yaml:"total_files"`
	ScannedFiles   int                 `json:"scanned_files" yaml:"scanned_files"`
	Languages      []string            `json:"languages" yaml:"languages"`
	Complexity     ComplexityBreakdown `json:"complexity" yaml:"complexity"`
	Dependencies   []Dependency        `json:"dependencies" yaml:"dependencies"`
	Quality        []QualityMetric     `json:"quality" yaml:"quality"`
	Recommendation string              `json:"recommendation" yaml:"recommendation"`
}

type CodeScanner struct {
	AcceptedExtensions []string    `json:"accepted_extensions" yaml:"accepted_extensions"`
	Results            ScanResults `json:"results" yaml:"results"`
}
