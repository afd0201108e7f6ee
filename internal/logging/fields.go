// Package logging holds the standardized field names used for structured
// log output across the application.
package logging

const (
	FieldCaseID        = "case_id"
	FieldTransactionID = "transaction_id"
	FieldRequestID     = "request_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatus        = "status"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldMode          = "mode"
	FieldError         = "error"
)
