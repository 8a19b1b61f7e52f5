package domain

const (
	EventDatasetUploaded = "survey.dataset.uploaded"
	EventDatasetLoaded   = "survey.dataset.loaded"
	EventExportCompleted = "survey.export.completed"
)

var inputEvents = map[string]struct{}{
	EventDatasetUploaded: {},
}

func IsSupportedInputEvent(eventType string) bool {
	_, ok := inputEvents[eventType]
	return ok
}

func CanonicalPartitionKeyPath(eventType string) string {
	switch eventType {
	case EventDatasetUploaded, EventDatasetLoaded:
		return "data.dataset"
	case EventExportCompleted:
		return "data.export_id"
	default:
		return ""
	}
}
