package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ApprovalErrorKind string

const (
	ErrKindValidation            ApprovalErrorKind = "VALIDATION"
	ErrKindNotFound              ApprovalErrorKind = "NOT_FOUND"
	ErrKindAlreadyResolved       ApprovalErrorKind = "ALREADY_RESOLVED"
	ErrKindInsufficientPrivilege ApprovalErrorKind = "INSUFFICIENT_PRIVILEGE"
	ErrKindApplyFailed           ApprovalErrorKind = "APPLY_FAILED"
	ErrKindUnsupportedOperation  ApprovalErrorKind = "UNSUPPORTED_OPERATION"
	ErrKindNoFilter              ApprovalErrorKind = "NO_FILTER"
)

// ApprovalError - типизированная ошибка конвейера согласования.
// Tokens заполняется для INSUFFICIENT_PRIVILEGE, чтобы вызывающая сторона
// могла показать, каких именно разрешений не хватает.
type ApprovalError struct {
	Kind    ApprovalErrorKind `json:"kind"`
	Message string            `json:"message"`
	Tokens  []PermissionToken `json:"tokens,omitempty"`
}

func (e *ApprovalError) Error() string {
	if len(e.Tokens) == 0 {
		return e.Message
	}
	tokens := make([]string, 0, len(e.Tokens))
	for _, token := range e.Tokens {
		tokens = append(tokens, string(token))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(tokens, ", "))
}

func NewApprovalError(kind ApprovalErrorKind, message string) *ApprovalError {
	return &ApprovalError{
		Kind:    kind,
		Message: message,
	}
}

func NewApprovalErrorf(kind ApprovalErrorKind, format string, args ...interface{}) *ApprovalError {
	return NewApprovalError(kind, fmt.Sprintf(format, args...))
}

func NewPrivilegeError(message string, tokens []PermissionToken) *ApprovalError {
	return &ApprovalError{
		Kind:    ErrKindInsufficientPrivilege,
		Message: message,
		Tokens:  tokens,
	}
}

// AsApprovalError возвращает типизированную ошибку, если она есть в цепочке
func AsApprovalError(err error) (*ApprovalError, bool) {
	if err == nil {
		return nil, false
	}
	aErr := &ApprovalError{}
	if errors.As(err, &aErr) {
		return aErr, true
	}
	return nil, false
}
