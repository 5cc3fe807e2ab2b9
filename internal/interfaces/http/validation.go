package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decimalFields campos numéricos del cuerpo y el error con que se reporta un valor ilegible.
var decimalFields = map[string]error{
	"quantity":    domain.ErrInvalidQuantity,
	"new_balance": domain.ErrValidation,
}

// parseBody decodifica el JSON en dst y aplica las reglas `validate`.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return bodyError(c.Body(), err)
	}
	return validateStruct(dst)
}

// bodyError distingue un número ilegible en un campo conocido de un cuerpo mal formado.
func bodyError(raw []byte, cause error) error {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) == nil {
		for name, sentinel := range decimalFields {
			v, ok := fields[name]
			if !ok {
				continue
			}
			var d decimal.Decimal
			if d.UnmarshalJSON(v) != nil {
				return fmt.Errorf("%w: %s debe ser numérico", sentinel, name)
			}
		}
	}
	return fmt.Errorf("%w: %v", errInvalidBody, cause)
}

// parseQuery decodifica la query string en dst y la valida.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fmt.Errorf("%w: query inválida", domain.ErrValidation)
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describeField(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(fields, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es obligatorio"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de [%s]", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s debe tener %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s admite como máximo %s", fe.Field(), fe.Param())
	case "numeric":
		return fe.Field() + " debe ser numérico"
	default:
		return fmt.Sprintf("%s no cumple %s", fe.Field(), fe.Tag())
	}
}
