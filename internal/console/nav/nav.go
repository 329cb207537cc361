// Package nav описывает навигационный каркас консоли: фиксированный список
// разделов, точное сопоставление путей и редирект корня.
package nav

// Entry — пункт навигационной панели.
type Entry struct {
	Label    string `json:"label"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
	Subtitle string `json:"subtitle"`
	// Tool — пункт из группы "AI Tools" (все, кроме главной).
	Tool bool `json:"tool"`
}

const (
	RootPath      = "/"
	DashboardPath = "/dashboard"
)

// entries — порядок важен, в нем пункты выводятся в панели.
var entries = []Entry{
	{Label: "Dashboard", Path: DashboardPath, Icon: "layout-dashboard", Subtitle: "Modernize your legacy systems with AI"},
	{Label: "Code Scanner", Path: "/code-scanner", Icon: "code", Tool: true,
		Subtitle: "Analyze legacy codebases and get AI-powered insights and modernization recommendations."},
	{Label: "Containerizer", Path: "/containerizer", Icon: "package", Tool: true,
		Subtitle: "Automatically detect application modules and generate Docker configurations for containerized deployment."},
	{Label: "API Generator", Path: "/api-generator", Icon: "zap", Tool: true,
		Subtitle: "Generate modern REST and GraphQL APIs for your legacy systems with AI-powered endpoint discovery and implementation."},
	{Label: "Migration Estimator", Path: "/migration-estimator", Icon: "calculator", Tool: true,
		Subtitle: "Estimate effort, cost, downtime and risk of migrating each legacy component."},
	{Label: "Security Analyzer", Path: "/security-analyzer", Icon: "shield", Tool: true,
		Subtitle: "Comprehensive security analysis with vulnerability detection, compliance checking, and remediation recommendations."},
	{Label: "Reports", Path: "/reports", Icon: "file-text", Tool: true,
		Subtitle: "Track migration progress, cost savings and security improvements across projects."},
}

// Entries возвращает копию списка пунктов.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup ищет пункт строго по совпадению пути.
func Lookup(path string) (Entry, bool) {
	for _, e := range entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

type RouteKind int

const (
	RouteNotFound RouteKind = iota
	RoutePage
	RouteRedirect
)

func (k RouteKind) String() string {
	switch k {
	case RoutePage:
		return "page"
	case RouteRedirect:
		return "redirect"
	default:
		return "not_found"
	}
}

// Route — результат разрешения пути.
type Route struct {
	Kind     RouteKind
	Entry    Entry  // для RoutePage
	Location string // для RouteRedirect
}

// Resolve сопоставляет путь без вложенных и параметризованных маршрутов:
// корень всегда ведет на главную, неизвестное — на not-found.
func Resolve(path string) Route {
	if path == RootPath {
		return Route{Kind: RouteRedirect, Location: DashboardPath}
	}
	if e, ok := Lookup(path); ok {
		return Route{Kind: RoutePage, Entry: e}
	}
	return Route{Kind: RouteNotFound}
}

// Item — пункт панели в контексте текущего запроса.
type Item struct {
	Entry
	Active bool `json:"active"`
}

// Items размечает активным ровно тот пункт, чей путь совпадает с current.
func Items(current string) []Item {
	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		out = append(out, Item{Entry: e, Active: e.Path == current})
	}
	return out
}

// SidebarState — отображение панели. Только косметика, на маршрутизацию не влияет.
type SidebarState string

const (
	SidebarExpanded  SidebarState = "expanded"
	SidebarCollapsed SidebarState = "collapsed"
)

// ParseSidebarState трактует любое неизвестное значение как expanded.
func ParseSidebarState(s string) SidebarState {
	if s == string(SidebarCollapsed) {
		return SidebarCollapsed
	}
	return SidebarExpanded
}

func (s SidebarState) Collapsed() bool { return s == SidebarCollapsed }
