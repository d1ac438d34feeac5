package importing

import "fmt"

// IssueLevel classifies the severity of a row issue
type IssueLevel string

const (
	IssueWarning IssueLevel = "warning"
	IssueError   IssueLevel = "error"
)

// Issue codes. Codes are stable machine identifiers; messages are for humans.
const (
	IssueCodeMissingCategory = "ERR_IMPORT_MISSING_CATEGORY"
	IssueCodeMissingName     = "ERR_IMPORT_MISSING_NAME"
	IssueCodeMissingPrice    = "ERR_IMPORT_MISSING_PRICE"
	IssueCodeInvalidPrice    = "ERR_IMPORT_INVALID_PRICE"
	IssueCodeGeneratedSKU    = "WARN_IMPORT_GENERATED_SKU"
	IssueCodeZeroPrice       = "WARN_IMPORT_ZERO_PRICE"
	IssueCodeMissingImage    = "WARN_IMPORT_MISSING_IMAGE"
	IssueCodeLowConfidence   = "WARN_IMPORT_LOW_CONFIDENCE"
	IssueCodeMalformedRow    = "ERR_IMPORT_MALFORMED_ROW"
)

// Issue is a machine-coded problem attached to a row at parse time
type Issue struct {
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}

// NewWarning creates a warning-level issue
func NewWarning(code, message string) Issue {
	return Issue{Level: IssueWarning, Code: code, Message: message}
}

// NewError creates an error-level issue
func NewError(code, message string) Issue {
	return Issue{Level: IssueError, Code: code, Message: message}
}

// String implements fmt.Stringer
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Level, i.Code, i.Message)
}
