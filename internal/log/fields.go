package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldSessionID   = "session_id"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldRecordID    = "record_id"
	FieldModel       = "model"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentAuth     = "auth"
	ComponentLedger   = "ledger"
	ComponentReport   = "report"
	ComponentAdvisory = "advisory"
	ComponentCharts   = "charts"
	ComponentSession  = "session"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpValidate = "validate"
	OpRender   = "render"
	OpGenerate = "generate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
