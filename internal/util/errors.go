package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类，决定 HTTP 状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindServiceUnavailable
)

func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AppError 业务错误，Message 面向客户端，Err 仅用于日志
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 同类型且同消息即视为相等，便于 errors.Is 比较哨兵错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewAuthError(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewServiceUnavailable(msg string) *AppError {
	return &AppError{Kind: KindServiceUnavailable, Message: msg}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf 返回错误分类，非 AppError 一律视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

var (
	ErrUserNotFound              = NewNotFoundError("User not found")
	ErrEmailRegistered           = NewValidationError("User with this email already exists")
	ErrInvalidCredentials        = NewAuthError("Invalid email or password")
	ErrUnauthorized              = NewAuthError("Unauthorized")
	ErrCourseNotFound            = NewNotFoundError("Course not found")
	ErrChapterNotFound           = NewNotFoundError("Chapter not found")
	ErrProblemNotFound           = NewNotFoundError("Problem not found")
	ErrAIServiceNotConfigured    = NewServiceUnavailable("AI service not configured")
	ErrVideoServiceNotConfigured = NewServiceUnavailable("video search not configured")
	ErrGenerationInProgress      = NewConflictError("Course generation already in progress")
	ErrCourseNotResumable        = NewValidationError("Course generation cannot be resumed")
)
