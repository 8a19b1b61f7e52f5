package contracts

type ExportRequest struct {
	ReportType string            `json:"report_type"`
	Format     string            `json:"format"`
	Filters    map[string]string `json:"filters"`
}

type ReloadRequest struct {
	Locations []string `json:"locations"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}
