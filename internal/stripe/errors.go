package stripe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError описывает ошибку, возвращённую платёжным провайдером.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: %s (status %d)", e.Message, e.StatusCode)
}

// extractMessage извлекает человекочитаемое сообщение из тела ошибки.
// Провайдеры и прокси отвечают в разных форматах: строка, объекты с
// полями error/detail/message, списки non_field_errors, словари ошибок
// по полям и HTML-страницы. Неразобранное тело заменяется текстом
// статуса HTTP.
func extractMessage(statusCode int, body []byte) string {
	fallback := statusFallback(statusCode)

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fallback
	}

	// HTML-страница ошибки от прокси или балансировщика.
	if strings.HasPrefix(trimmed, "<!") || strings.HasPrefix(trimmed, "<html") {
		return fallback
	}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		if s := strings.TrimSpace(asString); s != "" {
			return s
		}
		return fallback
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(body, &asObject); err != nil {
		// Тело не является JSON — возвращаем как есть, если оно похоже на текст.
		if len(trimmed) <= 200 {
			return trimmed
		}
		return fallback
	}

	for _, key := range []string{"error", "detail", "message"} {
		if raw, ok := asObject[key]; ok {
			if msg := decodeMessageValue(raw); msg != "" {
				return msg
			}
		}
	}

	if raw, ok := asObject["non_field_errors"]; ok {
		if msg := decodeMessageList(raw); msg != "" {
			return msg
		}
	}

	// Словарь ошибок валидации по полям: {"field": ["msg", ...]}.
	for field, raw := range asObject {
		if msg := decodeMessageList(raw); msg != "" {
			return field + ": " + msg
		}
	}

	return fallback
}

func decodeMessageValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	// Вложенный объект ошибки вида {"error": {"message": "..."}}.
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}

	return ""
}

func decodeMessageList(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return ""
	}
	return strings.TrimSpace(list[0])
}

func statusFallback(statusCode int) string {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return "payment provider is busy, try again later"
	case statusCode >= 500:
		return "payment provider is unavailable"
	case statusCode == http.StatusNotFound:
		return "payment object not found"
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return "payment provider rejected credentials"
	default:
		return http.StatusText(statusCode)
	}
}
