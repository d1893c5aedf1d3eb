package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldTxnID     = "transaction_id"
	FieldCount     = "count"
	FieldMonth     = "month"
	FieldCommit    = "commit"
)

// Components
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentLedger   = "ledger"
	ComponentInsights = "insights"
	ComponentImporter = "importer"
	ComponentGit      = "git"
	ComponentAudit    = "audit"
)
