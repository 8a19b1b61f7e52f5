package domain

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	defaultSuggestionCategory = "satisfaccion_general"
	defaultConfidence         = 0.1
	maxConfidence             = 0.95
	minSuggestionLength       = 3
	mediumPriorityLength      = 50
	keywordsPerSuggestion     = 5
	insightKeywords           = 5
	insightThemes             = 3
	insightExamples           = 3
)

type SuggestionCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	Sentiment   Sentiment `json:"sentiment"`
	Priority    Priority  `json:"priority"`
}

type AnalyzedSuggestion struct {
	OriginalText string    `json:"original_text"`
	CleanedText  string    `json:"cleaned_text"`
	Category     string    `json:"category"`
	Sentiment    Sentiment `json:"sentiment"`
	Priority     Priority  `json:"priority"`
	Keywords     []string  `json:"keywords"`
	Confidence   float64   `json:"confidence"`
	Themes       []string  `json:"themes"`
}

type KeywordFrequency struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type CategoryInsight struct {
	CategoryID  string             `json:"category_id"`
	Category    string             `json:"category"`
	Count       int                `json:"count"`
	Percentage  int                `json:"percentage"`
	Sentiment   SentimentBreakdown `json:"sentiment"`
	Priority    PriorityBreakdown  `json:"priority"`
	TopKeywords []KeywordFrequency `json:"top_keywords"`
	TopThemes   []ThemeCount       `json:"top_themes"`
	Examples    []string           `json:"examples"`
}

var SuggestionCategories = []SuggestionCategory{
	{
		ID:          "atencion_servicio",
		Name:        "Atención y Servicio al Cliente",
		Description: "Comentarios sobre la calidad de atención, amabilidad del personal y experiencia de servicio",
		Keywords:    []string{"atención", "servicio", "amabilidad", "personal", "asesor", "ejecutivo", "trato", "cordialidad", "profesionalismo", "capacitación", "conocimiento"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityHigh,
	},
	{
		ID:          "tiempos_respuesta",
		Name:        "Tiempos de Respuesta",
		Description: "Sugerencias relacionadas con velocidad de atención, tiempos de espera y eficiencia",
		Keywords:    []string{"tiempo", "espera", "rápido", "lento", "demora", "agilidad", "eficiencia", "velocidad", "pronto", "tardanza"},
		Sentiment:   SentimentNegative,
		Priority:    PriorityHigh,
	},
	{
		ID:          "productos_financieros",
		Name:        "Productos y Servicios Financieros",
		Description: "Comentarios sobre tasas, productos, tarifas y ofertas financieras",
		Keywords:    []string{"tasa", "interés", "producto", "tarifa", "costo", "precio", "cdt", "crédito", "cuenta", "ahorro", "inversión"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityMedium,
	},
	{
		ID:          "tecnologia_digital",
		Name:        "Tecnología y Canales Digitales",
		Description: "Sugerencias sobre plataformas digitales, aplicaciones y tecnología",
		Keywords:    []string{"página", "web", "app", "aplicación", "tecnología", "sistema", "digital", "online", "internet", "móvil"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityMedium,
	},
	{
		ID:          "horarios_disponibilidad",
		Name:        "Horarios y Disponibilidad",
		Description: "Comentarios sobre horarios de atención y disponibilidad de servicios",
		Keywords:    []string{"horario", "hora", "disponibilidad", "abierto", "cerrado", "fin de semana", "festivo", "madrugada", "noche"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityMedium,
	},
	{
		ID:          "infraestructura_fisica",
		Name:        "Infraestructura y Espacios Físicos",
		Description: "Sugerencias sobre oficinas, agencias, espacios físicos y comodidades",
		Keywords:    []string{"oficina", "agencia", "espacio", "lugar", "cómodo", "limpio", "parqueadero", "ubicación", "acceso", "instalaciones"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityLow,
	},
	{
		ID:          "comunicacion_informacion",
		Name:        "Comunicación e Información",
		Description: "Comentarios sobre claridad de información, comunicación y transparencia",
		Keywords:    []string{"información", "comunicación", "claro", "explicar", "entender", "transparencia", "detalle", "confuso", "dudas"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityMedium,
	},
	{
		ID:          "procesos_tramites",
		Name:        "Procesos y Trámites",
		Description: "Sugerencias sobre simplificación de procesos, documentación y trámites",
		Keywords:    []string{"proceso", "trámite", "documento", "requisito", "simple", "complicado", "fácil", "difícil", "papeles", "gestión"},
		Sentiment:   SentimentNeutral,
		Priority:    PriorityMedium,
	},
	{
		ID:          "satisfaccion_general",
		Name:        "Satisfacción General",
		Description: "Comentarios generales de satisfacción, felicitaciones y reconocimientos",
		Keywords:    []string{"excelente", "bueno", "satisfecho", "felicitaciones", "gracias", "recomiendo", "contento", "perfecto", "ideal"},
		Sentiment:   SentimentPositive,
		Priority:    PriorityLow,
	},
	{
		ID:          "quejas_problemas",
		Name:        "Quejas y Problemas",
		Description: "Quejas específicas, problemas reportados y experiencias negativas",
		Keywords:    []string{"malo", "problema", "queja", "error", "falla", "inconveniente", "molesto", "disgusto", "insatisfecho"},
		Sentiment:   SentimentNegative,
		Priority:    PriorityHigh,
	},
}

var (
	positiveWords = []string{"excelente", "bueno", "bien", "satisfecho", "contento", "feliz", "gracias", "perfecto", "ideal", "recomiendo", "agradezco"}
	negativeWords = []string{"malo", "pésimo", "terrible", "problema", "queja", "molesto", "disgusto", "insatisfecho", "lento", "demora", "error"}
	urgentWords   = []string{"urgente", "inmediato", "problema", "error", "falla", "queja", "malo", "pésimo"}
)

var repeatedQuotes = regexp.MustCompile(`"{2,}`)

var stopWords = map[string]struct{}{}

func init() {
	for _, word := range []string{
		"el", "la", "de", "que", "y", "a", "en", "un", "es", "se", "no", "te", "lo", "le", "da", "su", "por", "son", "con",
		"para", "al", "del", "los", "las", "una", "como", "más", "muy", "pero", "sus", "me", "ya", "todo", "esta", "fue",
		"han", "ser", "está", "tiene", "puede", "hacer", "desde", "hasta", "sobre", "entre",
	} {
		stopWords[word] = struct{}{}
	}
}

var suggestionThemes = []struct {
	name     string
	keywords []string
}{
	{"Atención Personal", []string{"atención", "personal", "asesor", "ejecutivo", "amabilidad"}},
	{"Velocidad de Servicio", []string{"tiempo", "rápido", "lento", "espera", "demora"}},
	{"Costos y Tarifas", []string{"costo", "precio", "tarifa", "caro", "barato"}},
	{"Tecnología", []string{"app", "página", "web", "sistema", "tecnología"}},
	{"Productos Financieros", []string{"tasa", "interés", "crédito", "cuenta", "producto"}},
	{"Accesibilidad", []string{"horario", "ubicación", "acceso", "disponibilidad"}},
	{"Información y Comunicación", []string{"información", "explicar", "claro", "comunicación"}},
}

func SuggestionCategoryByID(id string) (SuggestionCategory, bool) {
	for _, category := range SuggestionCategories {
		if category.ID == id {
			return category, true
		}
	}
	return SuggestionCategory{}, false
}

// AnalyzeSuggestion classifies a free-text answer by keyword matching.
func AnalyzeSuggestion(text string) AnalyzedSuggestion {
	cleaned := cleanSuggestion(text)
	if utf8.RuneCountInString(cleaned) < minSuggestionLength {
		return AnalyzedSuggestion{
			OriginalText: text,
			CleanedText:  cleaned,
			Category:     defaultSuggestionCategory,
			Sentiment:    SentimentNeutral,
			Priority:     PriorityLow,
			Keywords:     []string{},
			Confidence:   defaultConfidence,
			Themes:       []string{},
		}
	}
	lower := strings.ToLower(cleaned)
	sentiment := analyzeSentiment(lower)
	category, confidence := categorize(lower)
	return AnalyzedSuggestion{
		OriginalText: text,
		CleanedText:  cleaned,
		Category:     category,
		Sentiment:    sentiment,
		Priority:     determinePriority(cleaned, lower, sentiment),
		Keywords:     extractKeywords(lower),
		Confidence:   confidence,
		Themes:       extractThemes(lower),
	}
}

// AnalyzeSuggestions skips blank answers.
func AnalyzeSuggestions(texts []string) []AnalyzedSuggestion {
	out := make([]AnalyzedSuggestion, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, AnalyzeSuggestion(text))
	}
	return out
}

func BuildCategoryInsights(analyzed []AnalyzedSuggestion) []CategoryInsight {
	order := []string{}
	groups := map[string][]AnalyzedSuggestion{}
	for _, suggestion := range analyzed {
		if _, ok := groups[suggestion.Category]; !ok {
			order = append(order, suggestion.Category)
		}
		groups[suggestion.Category] = append(groups[suggestion.Category], suggestion)
	}

	total := len(analyzed)
	out := make([]CategoryInsight, 0, len(order))
	for _, id := range order {
		group := groups[id]
		name := id
		if category, ok := SuggestionCategoryByID(id); ok {
			name = category.Name
		}
		sentiments := map[Sentiment]int{}
		priorities := map[Priority]int{}
		keywords := []string{}
		themes := []string{}
		for _, suggestion := range group {
			sentiments[suggestion.Sentiment]++
			priorities[suggestion.Priority]++
			keywords = append(keywords, suggestion.Keywords...)
			themes = append(themes, suggestion.Themes...)
		}
		size := len(group)
		insight := CategoryInsight{
			CategoryID: id,
			Category:   name,
			Count:      size,
			Percentage: percentOf(size, total),
			Sentiment: SentimentBreakdown{
				Positive: percentOf(sentiments[SentimentPositive], size),
				Negative: percentOf(sentiments[SentimentNegative], size),
				Neutral:  percentOf(sentiments[SentimentNeutral], size),
			},
			Priority: PriorityBreakdown{
				High:   percentOf(priorities[PriorityHigh], size),
				Medium: percentOf(priorities[PriorityMedium], size),
				Low:    percentOf(priorities[PriorityLow], size),
			},
		}
		for _, entry := range rankByFrequency(keywords, insightKeywords) {
			insight.TopKeywords = append(insight.TopKeywords, KeywordFrequency{Keyword: entry.word, Frequency: entry.count})
		}
		for _, entry := range rankByFrequency(themes, insightThemes) {
			insight.TopThemes = append(insight.TopThemes, ThemeCount{Theme: entry.word, Count: entry.count})
		}
		byConfidence := append([]AnalyzedSuggestion(nil), group...)
		sort.SliceStable(byConfidence, func(i, j int) bool { return byConfidence[i].Confidence > byConfidence[j].Confidence })
		for i := 0; i < len(byConfidence) && i < insightExamples; i++ {
			insight.Examples = append(insight.Examples, byConfidence[i].CleanedText)
		}
		out = append(out, insight)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func cleanSuggestion(text string) string {
	cleaned := strings.TrimPrefix(text, `"`)
	cleaned = strings.TrimSuffix(cleaned, `"`)
	cleaned = repeatedQuotes.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func countContained(lower string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(lower, word) {
			count++
		}
	}
	return count
}

func analyzeSentiment(lower string) Sentiment {
	positive := countContained(lower, positiveWords)
	negative := countContained(lower, negativeWords)
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// categorize picks the category with the highest keyword confidence. Ties
// keep the earlier category.
func categorize(lower string) (string, float64) {
	best, bestConfidence := defaultSuggestionCategory, defaultConfidence
	for _, category := range SuggestionCategories {
		matched := countContained(lower, category.Keywords)
		confidence := math.Min(maxConfidence, float64(matched)/float64(len(category.Keywords))+float64(matched)*0.1)
		if confidence > bestConfidence {
			best, bestConfidence = category.ID, confidence
		}
	}
	return best, bestConfidence
}

func determinePriority(cleaned, lower string, sentiment Sentiment) Priority {
	if sentiment == SentimentNegative || countContained(lower, urgentWords) > 0 {
		return PriorityHigh
	}
	if sentiment == SentimentNeutral && utf8.RuneCountInString(cleaned) > mediumPriorityLength {
		return PriorityMedium
	}
	return PriorityLow
}

func extractKeywords(lower string) []string {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	candidates := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		candidates = append(candidates, word)
	}
	ranked := rankByFrequency(candidates, keywordsPerSuggestion)
	out := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, entry.word)
	}
	return out
}

func extractThemes(lower string) []string {
	out := []string{}
	for _, theme := range suggestionThemes {
		if countContained(lower, theme.keywords) > 0 {
			out = append(out, theme.name)
		}
	}
	return out
}

type wordCount struct {
	word  string
	count int
}

// rankByFrequency orders by count desc, first appearance breaking ties.
func rankByFrequency(words []string, limit int) []wordCount {
	index := map[string]int{}
	counts := []wordCount{}
	for _, word := range words {
		if i, ok := index[word]; ok {
			counts[i].count++
			continue
		}
		index[word] = len(counts)
		counts = append(counts, wordCount{word: word, count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func percentOf(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

type SuggestionDetail struct {
	Sugerencia string `json:"sugerencia"`
	Porcentaje int    `json:"porcentaje"`
}

type SuggestionSummary struct {
	Categoria  string             `json:"categoria"`
	Porcentaje int                `json:"porcentaje"`
	Detalles   []SuggestionDetail `json:"detalles,omitempty"`
}

// ReferenceSuggestionSummary is the coded summary of the 2024-2/2025-1
// measurement report.
func ReferenceSuggestionSummary() []SuggestionSummary {
	return []SuggestionSummary{
		{
			Categoria:  "Mejoras en Atención y Servicios",
			Porcentaje: 53,
			Detalles: []SuggestionDetail{
				{Sugerencia: "Buenas atención y amabilidad", Porcentaje: 11},
				{Sugerencia: "Mala atención por audiorespuesta/contact center", Porcentaje: 8},
				{Sugerencia: "Disminuir tiempo de respuesta (PQR y Correos)", Porcentaje: 7},
			},
		},
		{
			Categoria:  "Mejoras en Productos",
			Porcentaje: 32,
			Detalles: []SuggestionDetail{
				{Sugerencia: "Bajas tasas de interés / Mejorar las tasas", Porcentaje: 17},
				{Sugerencia: "Alto costo en las tarifas", Porcentaje: 9},
			},
		},
		{
			Categoria:  "Mejoras Tecnológicas",
			Porcentaje: 15,
		},
	}
}
