// Входные модели REST-слоя и правила их валидации.
// Проверки — только форма полей; семантику (существование пользователя,
// сила пароля и т.д.) решает бэкенд идентификации.
package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// dateLayout — формат date_of_birth (календарная дата ISO-8601).
const dateLayout = "2006-01-02"

type SignUpRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
}

func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Invalid email format"), is.Email.Error("Invalid email format")),
		validation.Field(&r.Password, validation.Length(6, 0).Error("Password must be at least 6 characters"), validation.Required.Error("Password must be at least 6 characters")),
		validation.Field(&r.FirstName, validation.Required.Error("First name is required")),
		validation.Field(&r.LastName, validation.Required.Error("Last name is required")),
		validation.Field(&r.DateOfBirth, validation.Required.Error("Invalid date format (YYYY-MM-DD)"), validation.Date(dateLayout).Error("Invalid date format (YYYY-MM-DD)")),
	)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Invalid email format"), is.Email.Error("Invalid email format")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Invalid email format"), is.Email.Error("Invalid email format")),
	)
}

type InviteRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

func (r InviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Invalid email format"), is.Email.Error("Invalid email format")),
		validation.Field(&r.FirstName, validation.Required.Error("First name is required")),
		validation.Field(&r.LastName, validation.Required.Error("Last name is required")),
		validation.Field(&r.DateOfBirth, validation.Required.Error("Invalid date format (YYYY-MM-DD)"), validation.Date(dateLayout).Error("Invalid date format (YYYY-MM-DD)")),
	)
}
