package domain

func KPITable(kpis []KPIData) ReportTable {
	table := ReportTable{
		Name: "KPIs",
		Columns: []string{
			"Métrica", "Segmento", "Promedio", "% Calificación 5", "% Calificación 4", "% Calificación 1-3", "Respuestas",
		},
	}
	for _, kpi := range kpis {
		for _, group := range []struct {
			name  string
			stats MetricStats
		}{
			{"Consolidado", kpi.Consolidado},
			{"Personas", kpi.Personas},
			{"Empresarial", kpi.Empresarial},
		} {
			table.Rows = append(table.Rows, []any{
				kpi.Metric, group.name, group.stats.Average, group.stats.Rating5, group.stats.Rating4, group.stats.Rating123, group.stats.Total,
			})
		}
	}
	return table
}

func CityTable(cities []CityData) ReportTable {
	table := ReportTable{
		Name: "Ciudades",
		Columns: []string{
			"Ciudad", "Encuestados", "Claridad", "Satisfacción", "Recomendación", "Lealtad",
			"vs Nacional Claridad", "vs Nacional Satisfacción", "vs Nacional Recomendación", "vs Nacional Lealtad",
		},
	}
	for _, city := range cities {
		table.Rows = append(table.Rows, []any{
			city.Ciudad, city.TotalEncuestados,
			city.Metricas.ClaridadInformacion, city.Metricas.SatisfaccionGeneral, city.Metricas.Recomendacion, city.Metricas.Lealtad,
			string(city.Comparison.ClaridadInformacion), string(city.Comparison.SatisfaccionGeneral),
			string(city.Comparison.Recomendacion), string(city.Comparison.Lealtad),
		})
	}
	return table
}

func ManagerTable(report ManagerReport) ReportTable {
	table := ReportTable{
		Name:    "Ejecutivos",
		Columns: []string{"Ejecutivo", "Encuestas", "Porcentaje", "Categoría", "Tipo", "Agencia", "Segmento", "Ciudad"},
	}
	for _, manager := range report.Managers {
		table.Rows = append(table.Rows, []any{
			manager.Name, manager.Surveys, manager.Percentage, string(manager.Category),
			manager.TipoEjecutivo, manager.Agencia, manager.Segmento, manager.Ciudad,
		})
	}
	return table
}

func FilterStatsTable(filter FilterType, stats []FilterStats) ReportTable {
	table := ReportTable{
		Name: "Filtros",
		Columns: []string{
			string(filter), "Encuestas", "Promedio General", "Claridad", "Recomendación", "Satisfacción", "Lealtad",
		},
	}
	for _, row := range stats {
		table.Rows = append(table.Rows, []any{
			row.FilterValue, row.TotalSurveys, row.AverageRating,
			row.ClaridadPromedio, row.RecomendacionPromedio, row.SatisfaccionPromedio, row.LealtadPromedio,
		})
	}
	return table
}

func DepartmentTable(departments []DepartmentPerformance) ReportTable {
	table := ReportTable{
		Name:    "Agencias",
		Columns: []string{"Agencia", "Ciudad", "Promedio Satisfacción", "Respuestas"},
	}
	for _, department := range departments {
		table.Rows = append(table.Rows, []any{
			department.Department, CityForAgency(department.Department), department.AverageRating, department.ResponseCount,
		})
	}
	return table
}

// RecordsTable leaves out contact data (email, IP, id number).
func RecordsTable(records []SatisfactionRecord) ReportTable {
	table := ReportTable{
		Name: "Registros",
		Columns: []string{
			ColumnID, ColumnDateModified, ColumnSegmento, ColumnCiudad, ColumnAgencia, ColumnTipoEjecutivo, ColumnEjecutivoFinal,
			string(MetricClaridadInformacion), string(MetricRecomendacion), string(MetricSatisfaccionGeneral), string(MetricLealtad),
			ColumnSugerencias,
		},
	}
	for _, record := range records {
		table.Rows = append(table.Rows, []any{
			record.ID, record.DateModified, string(record.Segmento), record.Ciudad, record.Agencia, record.TipoEjecutivo,
			record.EjecutivoFinal, record.ClaridadInformacion, record.Recomendacion, record.SatisfaccionGeneral,
			record.Lealtad, record.Sugerencias,
		})
	}
	return table
}
