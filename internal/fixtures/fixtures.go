// Package fixtures загружает статический каталог данных консоли:
// все "результаты" анализа, таблицы и сниппеты кода берутся отсюда.
package fixtures

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xela07ax/intellibridge-console/internal/domain"
)

//go:embed data/catalog.yaml data/snippets/*.txt
var embedded embed.FS

// Catalog — полный набор фикстур. После загрузки не изменяется.
type Catalog struct {
	User               domain.User               `json:"user" yaml:"user"`
	Dashboard          domain.Dashboard          `json:"dashboard" yaml:"dashboard"`
	CodeScanner        domain.CodeScanner        `json:"code_scanner" yaml:"code_scanner"`
	Containerizer      domain.Containerizer      `json:"containerizer" yaml:"containerizer"`
	APIGenerator       domain.APIGenerator       `json:"api_generator" yaml:"api_generator"`
	MigrationEstimator domain.MigrationEstimator `json:"migration_estimator" yaml:"migration_estimator"`
	SecurityAnalyzer   domain.SecurityAnalyzer   `json:"security_analyzer" yaml:"security_analyzer"`
	Reports            domain.Reports            `json:"reports" yaml:"reports"`
	Assistant          domain.Assistant          `json:"assistant" yaml:"assistant"`
	Snippets           []domain.Snippet          `json:"snippets" yaml:"snippets"`

	snippetIdx map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default возвращает каталог, встроенный в бинарник.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Load(sub)
	})
	return defaultCatalog, defaultErr
}

// MustDefault — Default для composition root и тестов.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("fixtures: embedded catalog is broken: %v", err))
	}
	return c
}

// Load читает catalog.yaml и тексты сниппетов из snippets/<id>.txt.
func Load(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, "catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("fixtures: read catalog: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("fixtures: decode catalog: %w", err)
	}

	c.snippetIdx = make(map[string]int, len(c.Snippets))
	for i := range c.Snippets {
		s := &c.Snippets[i]
		body, err := fs.ReadFile(fsys, path.Join("snippets", s.ID+".txt"))
		if err != nil {
			return nil, fmt.Errorf("fixtures: snippet %q: %w", s.ID, err)
		}
		s.Content = string(body)
		c.snippetIdx[s.ID] = i
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate проверяет ссылочную целостность каталога.
func (c *Catalog) validate() error {
	refs := append([]string{}, c.Containerizer.Snippets...)
	for _, tab := range c.APIGenerator.Tabs {
		refs = append(refs, tab.Snippets...)
	}
	for _, id := range refs {
		if _, ok := c.snippetIdx[id]; !ok {
			return fmt.Errorf("fixtures: unknown snippet reference %q", id)
		}
	}

	seen := make(map[string]struct{})
	for _, e := range c.APIGenerator.Endpoints {
		if _, dup := seen[e.Key()]; dup {
			return fmt.Errorf("fixtures: duplicate endpoint %q", e.Key())
		}
		seen[e.Key()] = struct{}{}
	}
	return nil
}

func (c *Catalog) Snippet(id string) (domain.Snippet, bool) {
	i, ok := c.snippetIdx[id]
	if !ok {
		return domain.Snippet{}, false
	}
	return c.Snippets[i], true
}

func (c *Catalog) Module(name string) (domain.Module, bool) {
	for _, m := range c.Containerizer.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return domain.Module{}, false
}

// Endpoint ищет маршрут по ключу "METHOD /path".
func (c *Catalog) Endpoint(key string) (domain.Endpoint, bool) {
	for _, e := range c.APIGenerator.Endpoints {
		if e.Key() == key {
			return e, true
		}
	}
	return domain.Endpoint{}, false
}

func (c *Catalog) Vulnerability(id string) (domain.Vulnerability, bool) {
	for _, v := range c.SecurityAnalyzer.Vulnerabilities {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Vulnerability{}, false
}
