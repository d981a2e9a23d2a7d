package daterange

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CalendarDateTag is the struct tag that checks a yyyy-MM-dd string.
const CalendarDateTag = "calendardate"

// RegisterValidation installs the calendardate tag on v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(CalendarDateTag, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(Layout, fl.Field().String())
		return err == nil
	})
}
