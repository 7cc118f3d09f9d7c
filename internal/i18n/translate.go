// Package i18n maps identity provider error codes to the fixed pt-BR
// messages shown in the auth forms.
package i18n

import (
	stderrors "errors"

	apperrors "carteira/internal/errors"
)

// Generic is the fallback shown when no better message is available.
const Generic = "Erro desconhecido. Tente novamente."

// messages holds the localized text for the closed set of provider codes.
var messages = map[string]string{
	"USER_NOT_FOUND":      "Usuário não encontrado.",
	"WRONG_PASSWORD":      "Senha incorreta.",
	"EMAIL_IN_USE":        "Este email já está em uso.",
	"INVALID_EMAIL":       "Email inválido.",
	"WEAK_PASSWORD":       "Senha fraca. Use pelo menos 6 caracteres.",
	"EXPIRED_ACTION_CODE": "O código de redefinição expirou.",
	"INVALID_ACTION_CODE": "Código inválido ou expirado.",
	"TOO_MANY_REQUESTS":   "Muitas tentativas. Tente novamente mais tarde.",
	"MISSING_PASSWORD":    "A senha é obrigatória.",
}

// Translate returns the localized message for a provider error code.
// Unknown codes fall back to the raw message, then to Generic.
func Translate(code, raw string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	if raw != "" {
		return raw
	}
	return Generic
}

// TranslateError localizes any error. AppErrors are translated by code;
// everything else falls back to Generic. A nil error yields an empty string.
func TranslateError(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return Translate(appErr.Code, appErr.Message)
	}
	return Generic
}
