package content

// Extraction failure codes carried by apperrors.AppError.
const (
	CodeInvalidInput       = "invalid_input"
	CodeInvalidReference   = "invalid_reference"
	CodeFetchFailed        = "fetch_failed"
	CodeUnreadableDocument = "unreadable_document"
	CodeEmptyContent       = "empty_content"
	CodeLookupFailed       = "lookup_failed"
)
