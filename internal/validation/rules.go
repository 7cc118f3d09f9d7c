// Package validation implements the client-side field validation rules for
// the auth forms and the asset draft form. Rules are pure functions: they
// never call the identity provider or the asset store.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Code identifies the rule a value failed.
type Code string

const (
	CodeRequired          Code = "REQUIRED"
	CodeInvalidFormat     Code = "INVALID_FORMAT"
	CodeTooWeak           Code = "TOO_WEAK"
	CodeMismatch          Code = "MISMATCH"
	CodeNotPositive       Code = "NOT_POSITIVE"
	CodeInvalidDate       Code = "INVALID_DATE"
	CodeInvalidActionCode Code = "INVALID_ACTION_CODE"
)

// FieldError describes a single failed rule, scoped to one field.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string { return e.Message }

// PasswordMode selects how strict the password rule is. The provider
// enforces strength server-side on login, so login mode only requires
// a non-empty value.
type PasswordMode int

const (
	PasswordModeLogin PasswordMode = iota
	PasswordModeSignup
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Minimum 6 characters with at least one letter and one digit.
	letterRegex = regexp.MustCompile(`[A-Za-z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// DateLayout is the wire format for purchase dates (ISO calendar date).
const DateLayout = "2006-01-02"

// Email validates the shape of an email address.
func Email(s string) *FieldError {
	s = strings.TrimSpace(s)
	if s == "" {
		return &FieldError{Field: "email", Code: CodeRequired, Message: "Email é obrigatório."}
	}
	if !emailRegex.MatchString(s) {
		return &FieldError{Field: "email", Code: CodeInvalidFormat, Message: "Email inválido."}
	}
	return nil
}

// Password validates a password for the given mode.
func Password(s string, mode PasswordMode) *FieldError {
	if s == "" {
		return &FieldError{Field: "password", Code: CodeRequired, Message: "Senha é obrigatória."}
	}
	if mode == PasswordModeSignup {
		if len(s) < 6 || !letterRegex.MatchString(s) || !digitRegex.MatchString(s) {
			return &FieldError{Field: "password", Code: CodeTooWeak, Message: "Senha deve ter letras e números, mínimo 6 caracteres."}
		}
	}
	return nil
}

// Confirmation checks that the password confirmation matches.
func Confirmation(password, confirmation string) *FieldError {
	if password != confirmation {
		return &FieldError{Field: "confirm_password", Code: CodeMismatch, Message: "As senhas não coincidem."}
	}
	return nil
}

// AssetDraft validates the four asset form fields independently so multiple
// errors can be surfaced at once. Values arrive as the raw form strings.
// The returned slice is empty when the draft is valid.
func AssetDraft(name, assetType, value, date string) []*FieldError {
	var errs []*FieldError

	if strings.TrimSpace(name) == "" {
		errs = append(errs, &FieldError{Field: "name", Code: CodeRequired, Message: "Nome é obrigatório."})
	}

	if strings.TrimSpace(assetType) == "" {
		errs = append(errs, &FieldError{Field: "type", Code: CodeRequired, Message: "Tipo é obrigatório."})
	}

	if strings.TrimSpace(value) == "" {
		errs = append(errs, &FieldError{Field: "value", Code: CodeRequired, Message: "Valor é obrigatório."})
	} else if v, err := decimal.NewFromString(strings.TrimSpace(value)); err != nil || !v.IsPositive() {
		errs = append(errs, &FieldError{Field: "value", Code: CodeNotPositive, Message: "Valor deve ser maior que zero."})
	}

	if strings.TrimSpace(date) == "" {
		errs = append(errs, &FieldError{Field: "purchase_date", Code: CodeRequired, Message: "Data de compra é obrigatória."})
	} else if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		errs = append(errs, &FieldError{Field: "purchase_date", Code: CodeInvalidDate, Message: "Data de compra inválida."})
	}

	return errs
}
