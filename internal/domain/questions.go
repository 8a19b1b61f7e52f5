package domain

import (
	"strings"
	"unicode"
)

type MetricKey string

const (
	MetricClaridadInformacion MetricKey = "claridad_informacion"
	MetricRecomendacion       MetricKey = "recomendacion"
	MetricSatisfaccionGeneral MetricKey = "satisfaccion_general"
	MetricLealtad             MetricKey = "lealtad"
	MetricSugerencias         MetricKey = "sugerencias"
)

// RatingMetrics lists the numeric questions in KPI order.
var RatingMetrics = []MetricKey{
	MetricClaridadInformacion,
	MetricRecomendacion,
	MetricSatisfaccionGeneral,
	MetricLealtad,
}

func ParseMetricKey(raw string) (MetricKey, error) {
	value := MetricKey(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return MetricSatisfaccionGeneral, nil
	}
	for _, metric := range RatingMetrics {
		if metric == value {
			return metric, nil
		}
	}
	return "", ErrInvalidInput
}

type ResponseOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	MetricKey        MetricKey        `json:"metric_key"`
	DisplayName      string           `json:"display_name"`
	KPIName          string           `json:"kpi_name,omitempty"`
	OriginalQuestion string           `json:"original_question"`
	QuestionNumber   int              `json:"question_number"`
	ResponseScale    string           `json:"response_scale"`
	ResponseOptions  []ResponseOption `json:"response_options"`
	Description      string           `json:"description"`
	OpenText         bool             `json:"open_text"`
}

var SurveyQuestions = []Question{
	{
		MetricKey:        MetricClaridadInformacion,
		DisplayName:      "Claridad de la Información (Atención)",
		KPIName:          "Claridad de Información",
		OriginalQuestion: "En general, ¿La información suministrada en nuestros canales de atención fue clara y fácil de comprender?",
		QuestionNumber:   1,
		ResponseScale:    "Escala 1-5 (Acuerdo)",
		ResponseOptions: []ResponseOption{
			{Value: 5, Label: "Totalmente de acuerdo"},
			{Value: 4, Label: "De acuerdo"},
			{Value: 3, Label: "Ni en acuerdo / ni en desacuerdo"},
			{Value: 2, Label: "En desacuerdo"},
			{Value: 1, Label: "Totalmente en desacuerdo"},
		},
		Description: "Evalúa qué tan clara y comprensible es la información proporcionada por los canales de atención de Coltefinanciera.",
	},
	{
		MetricKey:        MetricRecomendacion,
		DisplayName:      "Recomendación",
		KPIName:          "Recomendación (NPS)",
		OriginalQuestion: "¿Qué tan probable es que usted le recomiende Coltefinanciera a sus colegas, familiares o amigos?",
		QuestionNumber:   2,
		ResponseScale:    "Escala 1-5 (Probabilidad)",
		ResponseOptions: []ResponseOption{
			{Value: 5, Label: "Totalmente probable"},
			{Value: 4, Label: "Probable"},
			{Value: 3, Label: "Ni probable ni no probable"},
			{Value: 2, Label: "Poco probable"},
			{Value: 1, Label: "Nada probable"},
		},
		Description: "Mide la disposición del cliente a recomendar Coltefinanciera a otras personas (indicador NPS).",
	},
	{
		MetricKey:        MetricSatisfaccionGeneral,
		DisplayName:      "Satisfacción General",
		KPIName:          "Satisfacción General",
		OriginalQuestion: "En general, ¿Qué tan satisfecho se encuentra con los servicios que le ofrece Coltefinanciera?",
		QuestionNumber:   3,
		ResponseScale:    "Escala 1-5 (Satisfacción)",
		ResponseOptions: []ResponseOption{
			{Value: 5, Label: "Totalmente satisfecho"},
			{Value: 4, Label: "Satisfecho"},
			{Value: 3, Label: "Ni satisfecho / ni insatisfecho"},
			{Value: 2, Label: "Poco satisfecho"},
			{Value: 1, Label: "Insatisfecho"},
		},
		Description: "Evalúa el nivel general de satisfacción del cliente con todos los servicios de Coltefinanciera.",
	},
	{
		MetricKey:        MetricLealtad,
		DisplayName:      "Lealtad",
		KPIName:          "Lealtad",
		OriginalQuestion: "Asumiendo que otra entidad financiera le ofreciera al mismo precio los mismos productos y servicios que usted tiene actualmente con Coltefinanciera, ¿qué tan probable es que usted continúe siendo cliente de Coltefinanciera?",
		QuestionNumber:   4,
		ResponseScale:    "Escala 1-5 (Probabilidad)",
		ResponseOptions: []ResponseOption{
			{Value: 5, Label: "Totalmente probable"},
			{Value: 4, Label: "Probable"},
			{Value: 3, Label: "Ni probable / ni no probable"},
			{Value: 2, Label: "Poco probable"},
			{Value: 1, Label: "Nada probable"},
		},
		Description: "Mide la lealtad del cliente y su intención de permanencia con Coltefinanciera frente a la competencia.",
	},
	{
		MetricKey:        MetricSugerencias,
		DisplayName:      "Sugerencias y Recomendaciones",
		OriginalQuestion: "¿Tiene alguna recomendación o sugerencia acerca del servicio que le ofrecemos en Coltefinanciera?",
		QuestionNumber:   5,
		ResponseScale:    "Respuesta abierta (texto libre)",
		ResponseOptions:  []ResponseOption{},
		Description:      "Recopila comentarios, sugerencias y recomendaciones específicas de los clientes para mejorar el servicio.",
		OpenText:         true,
	},
}

func QuestionByMetric(key MetricKey) (Question, bool) {
	for _, question := range SurveyQuestions {
		if question.MetricKey == key {
			return question, true
		}
	}
	return Question{}, false
}

func NumericQuestions() []Question {
	out := make([]Question, 0, len(RatingMetrics))
	for _, question := range SurveyQuestions {
		if !question.OpenText {
			out = append(out, question)
		}
	}
	return out
}

func OpenTextQuestions() []Question {
	out := []Question{}
	for _, question := range SurveyQuestions {
		if question.OpenText {
			out = append(out, question)
		}
	}
	return out
}

// MetricDisplayName is the label used on KPI cards.
func MetricDisplayName(key MetricKey) string {
	question, ok := QuestionByMetric(key)
	if !ok {
		return string(key)
	}
	if question.KPIName != "" {
		return question.KPIName
	}
	return question.DisplayName
}

var headerAliases = buildHeaderAliases()

func buildHeaderAliases() map[string]string {
	aliases := map[string]string{
		headerMatchKey("TIPO EJECUTIVO"):  ColumnTipoEjecutivo,
		headerMatchKey("EJECUTIVO FINAL"): ColumnEjecutivoFinal,
		headerMatchKey("DATE MODIFIED"):   ColumnDateModified,
		headerMatchKey("IP ADDRESS"):      ColumnIPAddress,
	}
	for _, question := range SurveyQuestions {
		aliases[headerMatchKey(question.OriginalQuestion)] = string(question.MetricKey)
		aliases[headerMatchKey(string(question.MetricKey))] = string(question.MetricKey)
	}
	return aliases
}

// CanonicalHeader maps a raw CSV header to its canonical column name. Survey
// exports replace commas inside question texts with runs of spaces, so
// matching ignores case, commas and repeated whitespace.
func CanonicalHeader(raw string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	if mapped, ok := headerAliases[headerMatchKey(trimmed)]; ok {
		return mapped
	}
	return trimmed
}

func headerMatchKey(raw string) string {
	fields := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
