package pipeline

import (
	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

// User-facing failure messages. They never carry internal detail.
const (
	MessageEmptyInput         = "Please provide some content to summarize."
	MessageUnsupportedKind    = "This type of content is not supported."
	MessageInvalidReference   = "That link does not look like a supported address. Please check it and try again."
	MessageFetchFailed        = "We could not load that page. Please check the address or try again later."
	MessageUnreadableDocument = "We could not read that document. Please upload a valid PDF file."
	MessageEmptyContent       = "No readable text was found in this content."
	MessageLookupFailed       = "We could not retrieve details for that video."
	MessageSummaryFailed      = "We could not produce a summary for this content."
)

func messageFor(err error) string {
	switch apperrors.CodeOf(err) {
	case content.CodeInvalidInput:
		return MessageEmptyInput
	case content.CodeInvalidReference:
		return MessageInvalidReference
	case content.CodeFetchFailed:
		return MessageFetchFailed
	case content.CodeUnreadableDocument:
		return MessageUnreadableDocument
	case content.CodeEmptyContent:
		return MessageEmptyContent
	case content.CodeLookupFailed:
		return MessageLookupFailed
	default:
		return MessageSummaryFailed
	}
}
