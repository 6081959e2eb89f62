package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound        = "PF001"
	ErrCodeNotSearched     = "PF002"
	ErrCodeNoPermission    = "PF003"
	ErrCodeSearchCondition = "PF004"
	ErrCodePageRequest     = "PF005"
	ErrCodeMissingSkills   = "PF006"
	ErrCodeUnknownSkill    = "PF007"
	ErrCodeStorage         = "PF008"
)

// Sentinel errors. Services surface these undecorated; handlers map them to
// transport status codes.
var (
	ErrPortfolioNotFound      = errors.New("portfolio not found")
	ErrPortfolioNotSearched   = errors.New("no portfolio matched the query")
	ErrNoPermission           = errors.New("no permission for this portfolio")
	ErrInvalidSearchCondition = errors.New("invalid search condition")
	ErrInvalidPageRequest     = errors.New("invalid page request")
	ErrMissingSkills          = errors.New("skill list is required")
	ErrUnknownSkill           = errors.New("unknown skill name")
	ErrStorage                = errors.New("blob storage operation failed")
)

// PortfolioError carries a code alongside the sentinel for transport mapping.
type PortfolioError struct {
	Code    string
	Message string
	Err     error
}

func (e *PortfolioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PortfolioError) Unwrap() error {
	return e.Err
}

func NewNotFoundError() *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeNotFound,
		Message: "Portfolio not found",
		Err:     ErrPortfolioNotFound,
	}
}

func NewNotSearchedError() *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeNotSearched,
		Message: "No portfolio matched the query",
		Err:     ErrPortfolioNotSearched,
	}
}

func NewNoPermissionError(action string) *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeNoPermission,
		Message: fmt.Sprintf("No permission to %s this portfolio", action),
		Err:     ErrNoPermission,
	}
}

func NewInvalidSearchConditionError(condition string) *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeSearchCondition,
		Message: fmt.Sprintf("Invalid search condition: %s", condition),
		Err:     ErrInvalidSearchCondition,
	}
}

func NewInvalidPageRequestError(reason string) *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodePageRequest,
		Message: fmt.Sprintf("Invalid page request: %s", reason),
		Err:     ErrInvalidPageRequest,
	}
}

func NewMissingSkillsError() *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeMissingSkills,
		Message: "Skill list is required",
		Err:     ErrMissingSkills,
	}
}

func NewUnknownSkillError(name string) *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeUnknownSkill,
		Message: fmt.Sprintf("Unknown skill: %s", name),
		Err:     ErrUnknownSkill,
	}
}

func NewStorageError(op string, err error) *PortfolioError {
	return &PortfolioError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf("Blob storage %s failed", op),
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
	}
}
