package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Segment string

const (
	SegmentPersonas    Segment = "PERSONAS"
	SegmentEmpresarial Segment = "EMPRESARIAL"
)

// Canonical column names after header remapping.
const (
	ColumnID             = "ID"
	ColumnDateModified   = "DATE_MODIFIED"
	ColumnIPAddress      = "IP_ADDRESS"
	ColumnEmail          = "EMAIL"
	ColumnNombre         = "NOMBRE"
	ColumnCedula         = "CEDULA"
	ColumnSegmento       = "SEGMENTO"
	ColumnCiudad         = "CIUDAD"
	ColumnAgencia        = "AGENCIA"
	ColumnTipoEjecutivo  = "TIPO_EJECUTIVO"
	ColumnEjecutivo      = "EJECUTIVO"
	ColumnEjecutivoFinal = "EJECUTIVO_FINAL"
	ColumnSugerencias    = "sugerencias"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SatisfactionRecord is one sanitized survey response. Ratings hold 0 when
// the respondent gave no valid answer.
type SatisfactionRecord struct {
	ID                  string  `json:"id"`
	DateModified        string  `json:"date_modified"`
	IPAddress           string  `json:"ip_address,omitempty"`
	Email               string  `json:"email,omitempty"`
	Nombre              string  `json:"nombre,omitempty"`
	Cedula              string  `json:"cedula,omitempty"`
	Segmento            Segment `json:"segmento"`
	Ciudad              string  `json:"ciudad"`
	Agencia             string  `json:"agencia"`
	TipoEjecutivo       string  `json:"tipo_ejecutivo"`
	Ejecutivo           string  `json:"ejecutivo"`
	EjecutivoFinal      string  `json:"ejecutivo_final"`
	ClaridadInformacion int     `json:"claridad_informacion"`
	Recomendacion       int     `json:"recomendacion"`
	SatisfaccionGeneral int     `json:"satisfaccion_general"`
	Lealtad             int     `json:"lealtad"`
	Sugerencias         string  `json:"sugerencias"`
}

// RedactContact blanks the respondent's contact and identity fields, the
// same columns the records export leaves out.
func RedactContact(record SatisfactionRecord) SatisfactionRecord {
	record.IPAddress = ""
	record.Email = ""
	record.Nombre = ""
	record.Cedula = ""
	return record
}

func (r SatisfactionRecord) Rating(metric MetricKey) int {
	switch metric {
	case MetricClaridadInformacion:
		return r.ClaridadInformacion
	case MetricRecomendacion:
		return r.Recomendacion
	case MetricSatisfaccionGeneral:
		return r.SatisfaccionGeneral
	case MetricLealtad:
		return r.Lealtad
	default:
		return 0
	}
}

type SurveyDataset struct {
	Version   string               `json:"version"`
	Source    string               `json:"source"`
	LoadedAt  time.Time            `json:"loaded_at"`
	TotalRows int                  `json:"total_rows"`
	ValidRows int                  `json:"valid_rows"`
	Warnings  []string             `json:"warnings,omitempty"`
	Records   []SatisfactionRecord `json:"records"`
}

// DatasetInfo describes a stored snapshot without its rows. For a roster,
// ValidRows is the number of executives kept.
type DatasetInfo struct {
	Version   string
	Source    string
	LoadedAt  time.Time
	TotalRows int
	ValidRows int
	Warnings  []string
}

// NormalizeSegment folds every value that is not EMPRESARIAL into PERSONAS.
func NormalizeSegment(raw string) Segment {
	if strings.EqualFold(strings.TrimSpace(raw), string(SegmentEmpresarial)) {
		return SegmentEmpresarial
	}
	return SegmentPersonas
}

func ParseSegment(raw string) (Segment, bool, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case "", "ALL", "CONSOLIDADO":
		return "", false, nil
	case string(SegmentPersonas):
		return SegmentPersonas, true, nil
	case string(SegmentEmpresarial), "EMPRESAS":
		return SegmentEmpresarial, true, nil
	default:
		return "", false, ErrInvalidInput
	}
}

// ParseRating reads a raw cell as a number. Decimal commas are accepted.
func ParseRating(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	value = strings.Replace(value, ",", ".", 1)
	num, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

// SanitizeRating returns the rounded rating, or 0 when the cell is not a
// number within the 1..5 scale.
func SanitizeRating(raw string) int {
	num, ok := ParseRating(raw)
	if !ok || num < MinRating || num > MaxRating {
		return 0
	}
	return int(math.Round(num))
}

func IsValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// IsValidRow reports whether a remapped CSV row can become a record.
func IsValidRow(row map[string]string) bool {
	if strings.TrimSpace(row[ColumnID]) == "" || strings.TrimSpace(row[ColumnSegmento]) == "" {
		return false
	}
	for _, metric := range RatingMetrics {
		if _, ok := ParseRating(row[string(metric)]); ok {
			return true
		}
	}
	return false
}

func BuildRecord(row map[string]string) SatisfactionRecord {
	field := func(name string) string { return strings.TrimSpace(row[name]) }
	return SatisfactionRecord{
		ID:                  field(ColumnID),
		DateModified:        field(ColumnDateModified),
		IPAddress:           field(ColumnIPAddress),
		Email:               field(ColumnEmail),
		Nombre:              field(ColumnNombre),
		Cedula:              field(ColumnCedula),
		Segmento:            NormalizeSegment(row[ColumnSegmento]),
		Ciudad:              field(ColumnCiudad),
		Agencia:             field(ColumnAgencia),
		TipoEjecutivo:       field(ColumnTipoEjecutivo),
		Ejecutivo:           field(ColumnEjecutivo),
		EjecutivoFinal:      field(ColumnEjecutivoFinal),
		ClaridadInformacion: SanitizeRating(row[string(MetricClaridadInformacion)]),
		Recomendacion:       SanitizeRating(row[string(MetricRecomendacion)]),
		SatisfaccionGeneral: SanitizeRating(row[string(MetricSatisfaccionGeneral)]),
		Lealtad:             SanitizeRating(row[string(MetricLealtad)]),
		Sugerencias:         field(ColumnSugerencias),
	}
}

func FilterBySegment(records []SatisfactionRecord, segment Segment) []SatisfactionRecord {
	out := make([]SatisfactionRecord, 0, len(records))
	for _, record := range records {
		if record.Segmento == segment {
			out = append(out, record)
		}
	}
	return out
}

// ParseSurveyTime accepts the timestamp layouts seen in SurveyMonkey exports.
func ParseSurveyTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"1/2/2006 15:04",
		"1/2/2006 3:04:05 PM",
		"01/02/2006",
		"1/2/2006",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
