package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldEntryID      = "entry_id"
	FieldCategoryID   = "category_id"
	FieldProjectID    = "project_id"
	FieldDescription  = "entry_description"
	FieldRunningCount = "running_count"
	FieldDeletedCount = "deleted_count"
	FieldEntryCount   = "entry_count"
	FieldBackend      = "backend"
	FieldFormat       = "format"
	FieldSortField    = "sort_field"
	FieldOlderThan    = "older_than_days"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentExport    = "export"
	ComponentAnalytics = "analytics"
	ComponentWorker    = "worker"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpStart    = "start"
	OpStop     = "stop"
	OpExport   = "export"
	OpPrune    = "prune"
	OpSync     = "sync"
	OpValidate = "validate"
	OpSave     = "save"
	OpLoad     = "load"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
