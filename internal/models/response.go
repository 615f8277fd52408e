package models

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Response — единый конверт ответа API:
// {message, content, status}. status=false для любой ошибки.
type Response struct {
	Message string `json:"message"`
	Content any    `json:"content"`
	Status  bool   `json:"status"`
}

// Violation — одно нарушение правила валидации поля.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations разворачивает ошибку ozzo в упорядоченный список нарушений
// (по имени поля). Для прочих ошибок возвращает одно нарушение без поля.
func Violations(err error) []Violation {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return []Violation{{Message: err.Error()}}
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]Violation, 0, len(fields))
	for _, f := range fields {
		out = append(out, Violation{Field: f, Message: verrs[f].Error()})
	}

	return out
}
