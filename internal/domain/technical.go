package domain

// SurveyProfile carries the fixed facts of the measurement campaign.
type SurveyProfile struct {
	Title             string   `json:"title" yaml:"title"`
	ObjetivoGeneral   string   `json:"objetivo_general" yaml:"objetivo_general"`
	UniversoTotal     int      `json:"universo_total" yaml:"universo_total"`
	NivelConfianza    string   `json:"nivel_confianza" yaml:"nivel_confianza"`
	MargenError       string   `json:"margen_error" yaml:"margen_error"`
	PeriodoCampo      string   `json:"periodo_campo" yaml:"periodo_campo"`
	MetodoRecoleccion string   `json:"metodo_recoleccion" yaml:"metodo_recoleccion"`
	MetricasEvaluadas []string `json:"metricas_evaluadas" yaml:"metricas_evaluadas"`
	PeriodosMedicion  string   `json:"periodos_medicion" yaml:"periodos_medicion"`
	NotaMetodologica  string   `json:"nota_metodologica" yaml:"nota_metodologica"`
	Segments          []string `json:"segments" yaml:"segments"`
	Channels          []string `json:"channels" yaml:"channels"`
}

type TechnicalInfo struct {
	SurveyProfile
	TotalEncuestados    int     `json:"total_encuestados"`
	PorcentajeRespuesta float64 `json:"porcentaje_respuesta"`
}

func DefaultSurveyProfile() SurveyProfile {
	return SurveyProfile{
		Title:             "Encuesta de Satisfacción del Cliente 2024-2 y 2025-1",
		ObjetivoGeneral:   "Evaluar de manera integral la satisfacción de los clientes de Coltefinanciera en los segmentos Personas y Empresarial durante los períodos 2024-2 y 2025-1, mediante la medición de indicadores clave como claridad de la información en atención, satisfacción general del servicio, nivel de recomendación (NPS) y lealtad del cliente. Este estudio busca identificar fortalezas y oportunidades de mejora en la experiencia del cliente, proporcionando insights estratégicos para la toma de decisiones orientadas al fortalecimiento de la relación comercial y la optimización de los procesos de atención al cliente en todas las agencias a nivel nacional.",
		UniversoTotal:     24067,
		NivelConfianza:    "95%",
		MargenError:       "2,50%",
		PeriodoCampo:      "15 de abril al 01 de junio de 2025",
		MetodoRecoleccion: "Web, mediante SurveyMonkey",
		MetricasEvaluadas: []string{
			"Claridad de la Información (Atención)",
			"Satisfacción General",
			"Nivel de Recomendación",
			"Lealtad del Cliente",
		},
		PeriodosMedicion: "2024-2 y 2025-1",
		NotaMetodologica: "La encuesta se realizó en 2025-1 pero representa la medición de los períodos 2024-2 y 2025-1",
		Segments:         []string{"Personas Naturales", "Empresas"},
		Channels:         []string{"Presencial (Agencias)", "Digital", "Telefónico"},
	}
}

// WithDefaults fills zero fields from DefaultSurveyProfile.
func (p SurveyProfile) WithDefaults() SurveyProfile {
	def := DefaultSurveyProfile()
	if p.Title == "" {
		p.Title = def.Title
	}
	if p.ObjetivoGeneral == "" {
		p.ObjetivoGeneral = def.ObjetivoGeneral
	}
	if p.UniversoTotal <= 0 {
		p.UniversoTotal = def.UniversoTotal
	}
	if p.NivelConfianza == "" {
		p.NivelConfianza = def.NivelConfianza
	}
	if p.MargenError == "" {
		p.MargenError = def.MargenError
	}
	if p.PeriodoCampo == "" {
		p.PeriodoCampo = def.PeriodoCampo
	}
	if p.MetodoRecoleccion == "" {
		p.MetodoRecoleccion = def.MetodoRecoleccion
	}
	if len(p.MetricasEvaluadas) == 0 {
		p.MetricasEvaluadas = def.MetricasEvaluadas
	}
	if p.PeriodosMedicion == "" {
		p.PeriodosMedicion = def.PeriodosMedicion
	}
	if p.NotaMetodologica == "" {
		p.NotaMetodologica = def.NotaMetodologica
	}
	if len(p.Segments) == 0 {
		p.Segments = def.Segments
	}
	if len(p.Channels) == 0 {
		p.Channels = def.Channels
	}
	return p
}

func BuildTechnicalInfo(profile SurveyProfile, respondents int) TechnicalInfo {
	profile = profile.WithDefaults()
	return TechnicalInfo{
		SurveyProfile:       profile,
		TotalEncuestados:    respondents,
		PorcentajeRespuesta: Round(float64(respondents)/float64(profile.UniversoTotal)*100, 2),
	}
}
