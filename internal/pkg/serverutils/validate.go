package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and maps the first failure to a
// 400 AppError with a readable field message.
func ValidateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return NewAppError(
			fiber.StatusBadRequest,
			fmt.Sprintf("Field '%s' failed on the '%s' rule", first.Field(), first.Tag()),
		)
	}

	return NewAppError(fiber.StatusBadRequest, "Invalid request payload")
}
