package domain

import (
	"math"
	"sort"
	"strings"
)

type ManagerCategory string

const (
	ManagerCategoryPersonas            ManagerCategory = "personas"
	ManagerCategoryEmpresarialBogota   ManagerCategory = "empresarial-bogota"
	ManagerCategoryEmpresarialMedellin ManagerCategory = "empresarial-medellin"
	ManagerCategoryEmpresarialOther    ManagerCategory = "empresarial-other"
	ManagerCategoryGeneral             ManagerCategory = "general"
)

const TopManagersLimit = 10

// CategorizeManager buckets an executive by segment and, for the business
// segment, by city.
func CategorizeManager(segmento, ciudad string) ManagerCategory {
	segment := strings.ToLower(segmento)
	city := strings.ToLower(ciudad)
	switch {
	case strings.Contains(segment, "personas"):
		return ManagerCategoryPersonas
	case strings.Contains(segment, "empresarial"):
		switch {
		case strings.Contains(city, "bogotá"), strings.Contains(city, "bogota"):
			return ManagerCategoryEmpresarialBogota
		case strings.Contains(city, "medellín"), strings.Contains(city, "medellin"):
			return ManagerCategoryEmpresarialMedellin
		default:
			return ManagerCategoryEmpresarialOther
		}
	default:
		return ManagerCategoryGeneral
	}
}

// ParseManagerCategory accepts the short selector names used by the report
// view as well as the full category values.
func ParseManagerCategory(raw string) (ManagerCategory, bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return "", false, nil
	case "personas":
		return ManagerCategoryPersonas, true, nil
	case "bogota", string(ManagerCategoryEmpresarialBogota):
		return ManagerCategoryEmpresarialBogota, true, nil
	case "medellin", string(ManagerCategoryEmpresarialMedellin):
		return ManagerCategoryEmpresarialMedellin, true, nil
	case "other", string(ManagerCategoryEmpresarialOther):
		return ManagerCategoryEmpresarialOther, true, nil
	case string(ManagerCategoryGeneral):
		return ManagerCategoryGeneral, true, nil
	default:
		return "", false, ErrInvalidInput
	}
}

type ManagerData struct {
	Name          string              `json:"name"`
	Surveys       int                 `json:"surveys"`
	Percentage    float64             `json:"percentage"`
	Category      ManagerCategory     `json:"category"`
	Agencia       string              `json:"agencia"`
	Segmento      string              `json:"segmento"`
	Ciudad        string              `json:"ciudad"`
	TipoEjecutivo string              `json:"tipo_ejecutivo"`
	ExecutiveInfo *ExecutiveToAnalyze `json:"executive_info,omitempty"`
}

type AgencyInfo struct {
	Name           string `json:"name"`
	TotalSurveys   int    `json:"total_surveys"`
	TotalManagers  int    `json:"total_managers"`
	ActiveManagers int    `json:"active_managers"`
	City           string `json:"city"`
	Segment        string `json:"segment"`
}

type CategorySummary struct {
	Category       ManagerCategory `json:"category"`
	Name           string          `json:"name"`
	Surveys        int             `json:"surveys"`
	Managers       int             `json:"managers"`
	ActiveManagers int             `json:"active_managers"`
	AverageSurveys int             `json:"average_surveys"`
}

type ManagerReport struct {
	FilteredRecords int               `json:"filtered_records"`
	TotalSurveys    int               `json:"total_surveys"`
	TotalManagers   int               `json:"total_managers"`
	ActiveManagers  int               `json:"active_managers"`
	AverageSurveys  int               `json:"average_surveys"`
	RosterApplied   bool              `json:"roster_applied"`
	Managers        []ManagerData     `json:"managers"`
	TopManagers     []ManagerData     `json:"top_managers"`
	Agencies        []AgencyInfo      `json:"agencies"`
	Categories      []CategorySummary `json:"categories"`
}

var categorySummaryOrder = []struct {
	category ManagerCategory
	name     string
}{
	{ManagerCategoryPersonas, "PERSONAS"},
	{ManagerCategoryEmpresarialBogota, "EMPRESARIAL - Bogotá"},
	{ManagerCategoryEmpresarialMedellin, "EMPRESARIAL - Medellín"},
	{ManagerCategoryEmpresarialOther, "EMPRESARIAL - Otras"},
}

// GroupManagers groups surveys by the normalized EJECUTIVO_FINAL and names
// each group by its first spelling. Roster attributes win over the survey
// ones; with rosterOnly set, executives missing from a loaded roster are
// dropped.
func GroupManagers(records []SatisfactionRecord, roster *ExecutiveRoster, rosterOnly bool) ([]ManagerData, int) {
	order := []string{}
	grouped := map[string][]SatisfactionRecord{}
	filtered := 0
	for _, record := range records {
		key := NormalizeName(record.EjecutivoFinal)
		if key == "" {
			continue
		}
		if rosterOnly && roster != nil && !roster.Includes(key) {
			continue
		}
		filtered++
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], record)
	}

	managers := make([]ManagerData, 0, len(order))
	for _, key := range order {
		group := grouped[key]
		first := group[0]
		name := strings.TrimSpace(first.EjecutivoFinal)
		manager := ManagerData{
			Name:          name,
			Surveys:       len(group),
			TipoEjecutivo: first.TipoEjecutivo,
			Agencia:       first.Agencia,
			Segmento:      string(first.Segmento),
			Ciudad:        first.Ciudad,
		}
		if roster != nil {
			if info, ok := roster.Info(name); ok {
				infoCopy := info
				manager.ExecutiveInfo = &infoCopy
				manager.TipoEjecutivo = firstNonEmpty(info.TipoEjecutivo, manager.TipoEjecutivo)
				manager.Agencia = firstNonEmpty(info.Agencia, manager.Agencia)
				manager.Segmento = firstNonEmpty(info.Segmento, manager.Segmento)
				manager.Ciudad = firstNonEmpty(info.Ciudad, manager.Ciudad)
			}
		}
		manager.TipoEjecutivo = strings.ToUpper(orDefault(manager.TipoEjecutivo, DefaultTipo))
		manager.Agencia = orDefault(manager.Agencia, DefaultAgencia)
		manager.Segmento = orDefault(manager.Segmento, DefaultSegmento)
		manager.Ciudad = orDefault(manager.Ciudad, DefaultCiudad)
		manager.Category = CategorizeManager(manager.Segmento, manager.Ciudad)
		if filtered > 0 {
			manager.Percentage = Round(float64(manager.Surveys)/float64(filtered)*100, 2)
		}
		managers = append(managers, manager)
	}
	sort.SliceStable(managers, func(i, j int) bool { return managers[i].Surveys > managers[j].Surveys })
	return managers, filtered
}

func MatchesManagerFilter(manager ManagerData, filter FilterType, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value == FilterValueAll {
		return true
	}
	switch filter {
	case FilterTipoEjecutivo:
		return strings.EqualFold(manager.TipoEjecutivo, value)
	case FilterSegmento:
		return manager.Segmento == value
	case FilterCiudad:
		return manager.Ciudad == value
	case FilterAgencia:
		return manager.Agencia == value
	default:
		return true
	}
}

func BuildAgencyGroups(managers []ManagerData) []AgencyInfo {
	order := []string{}
	groups := map[string]*AgencyInfo{}
	for _, manager := range managers {
		name := orDefault(manager.Agencia, DefaultAgencia)
		group, ok := groups[name]
		if !ok {
			group = &AgencyInfo{
				Name:    name,
				City:    orDefault(manager.Ciudad, "Sin Definir"),
				Segment: orDefault(manager.Segmento, "Sin Definir"),
			}
			groups[name] = group
			order = append(order, name)
		}
		group.TotalSurveys += manager.Surveys
		group.TotalManagers++
		if manager.Surveys > 0 {
			group.ActiveManagers++
		}
	}
	out := make([]AgencyInfo, 0, len(order))
	for _, name := range order {
		out = append(out, *groups[name])
	}
	return out
}

func SummarizeCategories(managers []ManagerData) []CategorySummary {
	out := make([]CategorySummary, 0, len(categorySummaryOrder))
	for _, entry := range categorySummaryOrder {
		summary := CategorySummary{Category: entry.category, Name: entry.name}
		for _, manager := range managers {
			if manager.Category != entry.category {
				continue
			}
			summary.Surveys += manager.Surveys
			summary.Managers++
			if manager.Surveys > 0 {
				summary.ActiveManagers++
			}
		}
		summary.AverageSurveys = averageSurveys(summary.Surveys, summary.ActiveManagers)
		out = append(out, summary)
	}
	return out
}

func TopManagers(managers []ManagerData, limit int) []ManagerData {
	out := make([]ManagerData, 0, limit)
	for _, manager := range managers {
		if manager.Surveys > 0 {
			out = append(out, manager)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Surveys > out[j].Surveys })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func averageSurveys(surveys, active int) int {
	if active == 0 {
		return 0
	}
	return int(math.Round(float64(surveys) / float64(active)))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

type ManagerReportQuery struct {
	Category    ManagerCategory
	FilterType  FilterType
	FilterValue string
	RosterOnly  bool
}

// BuildManagerReport assembles the participation report. Category summaries
// always cover every manager; the list, totals and ranking honour the query.
func BuildManagerReport(records []SatisfactionRecord, roster *ExecutiveRoster, query ManagerReportQuery) ManagerReport {
	all, filtered := GroupManagers(records, roster, query.RosterOnly)
	selected := make([]ManagerData, 0, len(all))
	for _, manager := range all {
		if query.Category != "" && manager.Category != query.Category {
			continue
		}
		if !MatchesManagerFilter(manager, query.FilterType, query.FilterValue) {
			continue
		}
		selected = append(selected, manager)
	}

	report := ManagerReport{
		FilteredRecords: filtered,
		RosterApplied:   query.RosterOnly && roster != nil,
		Managers:        selected,
		TopManagers:     TopManagers(selected, TopManagersLimit),
		Agencies:        BuildAgencyGroups(selected),
		Categories:      SummarizeCategories(all),
		TotalManagers:   len(selected),
	}
	for _, manager := range selected {
		report.TotalSurveys += manager.Surveys
		if manager.Surveys > 0 {
			report.ActiveManagers++
		}
	}
	report.AverageSurveys = averageSurveys(report.TotalSurveys, report.ActiveManagers)
	return report
}
