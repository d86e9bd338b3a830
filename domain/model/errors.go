package model

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// Sentinel errors surfaced to the user by the dashboard usecase.
var (
	ErrEmptyIdentifier  = errors.New("channel identifier is empty")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrDuplicateChannel = errors.New("channel is already tracked")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrDecode           = errors.New("unable to decode share token")
)

// APIErrorKind classifies upstream YouTube API failures.
type APIErrorKind string

const (
	APIErrorCredential APIErrorKind = "credential"
	APIErrorQuota      APIErrorKind = "quota"
	APIErrorBadRequest APIErrorKind = "bad_request"
	APIErrorGeneric    APIErrorKind = "generic"
)

// APIError decorates an upstream API failure with its classification so the
// notification layer can distinguish credential/quota problems from malformed
// requests and generic failures.
type APIError struct {
	Kind    APIErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyAPIError wraps an upstream call failure into an APIError. HTTP 403
// responses are credential problems; the upstream message tells referrer
// restriction apart from quota exhaustion. HTTP 400 responses are malformed
// requests. Everything else stays generic.
func ClassifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &APIError{Kind: APIErrorGeneric, Message: fmt.Sprintf("YouTube API request failed: %v", err), Err: err}
	}
	switch gerr.Code {
	case 403:
		msg := strings.ToLower(gerr.Message)
		if strings.Contains(msg, "referer") || strings.Contains(msg, "referrer") || strings.Contains(msg, "blocked") {
			return &APIError{
				Kind:    APIErrorCredential,
				Message: "API key rejected: the key is restricted to another domain or referrer",
				Err:     err,
			}
		}
		return &APIError{
			Kind:    APIErrorQuota,
			Message: "API key rejected: invalid key or daily quota exhausted",
			Err:     err,
		}
	case 400:
		return &APIError{
			Kind:    APIErrorBadRequest,
			Message: fmt.Sprintf("malformed YouTube API request: %s", gerr.Message),
			Err:     err,
		}
	default:
		return &APIError{
			Kind:    APIErrorGeneric,
			Message: fmt.Sprintf("YouTube API error (HTTP %d): %s", gerr.Code, gerr.Message),
			Err:     err,
		}
	}
}
