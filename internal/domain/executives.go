package domain

import (
	"strings"
	"time"
)

type ExecutiveToAnalyze struct {
	EjecutivoFinal string `json:"ejecutivo_final"`
	Agencia        string `json:"agencia"`
	TipoEjecutivo  string `json:"tipo_ejecutivo"`
	Segmento       string `json:"segmento"`
	Ciudad         string `json:"ciudad"`
}

type ExecutiveDataset struct {
	Version    string               `json:"version"`
	Source     string               `json:"source"`
	LoadedAt   time.Time            `json:"loaded_at"`
	TotalRows  int                  `json:"total_rows"`
	Executives []ExecutiveToAnalyze `json:"executives"`
}

type ExecutiveStats struct {
	Total      int            `json:"total"`
	ByTipo     map[string]int `json:"by_tipo"`
	BySegmento map[string]int `json:"by_segmento"`
	ByCiudad   map[string]int `json:"by_ciudad"`
	ByAgencia  map[string]int `json:"by_agencia"`
}

// NormalizeName is the matching key between survey EJECUTIVO_FINAL values
// and the roster.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// BuildExecutive turns a remapped roster row into an entry. Rows without a
// name are rejected.
func BuildExecutive(row map[string]string) (ExecutiveToAnalyze, bool) {
	entry := ExecutiveToAnalyze{
		EjecutivoFinal: strings.TrimSpace(row[ColumnEjecutivoFinal]),
		Agencia:        strings.TrimSpace(row[ColumnAgencia]),
		TipoEjecutivo:  strings.TrimSpace(row[ColumnTipoEjecutivo]),
		Segmento:       strings.TrimSpace(row[ColumnSegmento]),
		Ciudad:         strings.TrimSpace(row[ColumnCiudad]),
	}
	return entry, entry.EjecutivoFinal != ""
}

// ExecutiveRoster indexes the executives selected for analysis. The zero
// value is an empty, unloaded roster.
type ExecutiveRoster struct {
	loaded  bool
	entries []ExecutiveToAnalyze
	byName  map[string]int
}

func NewExecutiveRoster(entries []ExecutiveToAnalyze) ExecutiveRoster {
	roster := ExecutiveRoster{
		loaded:  true,
		entries: append([]ExecutiveToAnalyze(nil), entries...),
		byName:  make(map[string]int, len(entries)),
	}
	for i, entry := range roster.entries {
		key := NormalizeName(entry.EjecutivoFinal)
		if key == "" {
			continue
		}
		if _, exists := roster.byName[key]; !exists {
			roster.byName[key] = i
		}
	}
	return roster
}

func (r ExecutiveRoster) Loaded() bool { return r.loaded }

func (r ExecutiveRoster) Len() int { return len(r.entries) }

func (r ExecutiveRoster) Entries() []ExecutiveToAnalyze {
	return append([]ExecutiveToAnalyze(nil), r.entries...)
}

func (r ExecutiveRoster) Includes(name string) bool {
	_, ok := r.byName[NormalizeName(name)]
	return ok
}

func (r ExecutiveRoster) Info(name string) (ExecutiveToAnalyze, bool) {
	idx, ok := r.byName[NormalizeName(name)]
	if !ok {
		return ExecutiveToAnalyze{}, false
	}
	return r.entries[idx], true
}

func (r ExecutiveRoster) Stats() ExecutiveStats {
	stats := ExecutiveStats{
		Total:      len(r.entries),
		ByTipo:     map[string]int{},
		BySegmento: map[string]int{},
		ByCiudad:   map[string]int{},
		ByAgencia:  map[string]int{},
	}
	for _, entry := range r.entries {
		stats.ByTipo[orDefault(entry.TipoEjecutivo, DefaultTipo)]++
		stats.BySegmento[orDefault(entry.Segmento, DefaultSegmento)]++
		stats.ByCiudad[orDefault(entry.Ciudad, DefaultCiudad)]++
		stats.ByAgencia[orDefault(entry.Agencia, DefaultAgencia)]++
	}
	return stats
}
