package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia única del validador de structs para los handlers.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct valida el DTO y devuelve un mensaje legible por campo, o "".
func validateStruct(in any) string {
	err := validate.Struct(in)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s no cumple la regla '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
