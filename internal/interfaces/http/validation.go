package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON/query del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// parseBody decodifica el cuerpo JSON y valida las etiquetas validate.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

// parseQuery decodifica los parámetros de consulta y los valida.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

// validateStruct devuelve ErrInvalidInput con el primer campo que falla.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fieldMessage(verrs[0]))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " es obligatorio"
	case "email":
		return field + " debe ser un email válido"
	case "uuid":
		return field + " debe ser un UUID"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s admite como máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	}
	return field + " es inválido"
}

// pathID devuelve el parámetro :id validado como UUID.
func pathID(c *fiber.Ctx) (string, error) {
	return uuidParam(c.Params("id"), "id")
}

func uuidParam(raw, name string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, name)
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: %s debe ser un UUID", domain.ErrInvalidInput, name)
	}
	return raw, nil
}

// pageParams limit/offset con los topes de los listados.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
