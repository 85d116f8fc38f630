package tour

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tourigo/tourigo-client/internal/tourapi"
	"github.com/tourigo/tourigo-client/pkg/enums"
	pkgerrors "github.com/tourigo/tourigo-client/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterStructValidation(tourStructLevel, tourapi.CreateTourInput{})
	v.RegisterStructValidation(ticketStructLevel, tourapi.TicketInput{})
	return v
}

func tourStructLevel(sl validator.StructLevel) {
	input := sl.Current().Interface().(tourapi.CreateTourInput)

	if _, err := enums.ParseScheduleFrequency(input.ScheduleFrequency); err != nil {
		sl.ReportError(input.ScheduleFrequency, "schedule_frequency", "ScheduleFrequency", "schedule_frequency", "")
	}

	open, openErr := time.Parse("2006-01-02", input.OpenDay)
	closeDay, closeErr := time.Parse("2006-01-02", input.CloseDay)
	if openErr != nil || closeErr != nil {
		// field-level datetime tags already report unparseable days
		return
	}
	if !closeDay.After(open) {
		sl.ReportError(input.CloseDay, "close_day", "CloseDay", "gtopenday", "")
	}
}

func ticketStructLevel(sl validator.StructLevel) {
	input := sl.Current().Interface().(tourapi.TicketInput)

	if _, err := enums.ParseTicketKind(input.Kind); err != nil {
		sl.ReportError(input.Kind, "ticket_kind", "Kind", "ticket_kind", "")
	}
	if input.DefaultNetCost.IsNegative() {
		sl.ReportError(input.DefaultNetCost, "default_net_cost", "DefaultNetCost", "netcost", "")
	}
}

// validateTour checks the assembled payload against the full schema and
// returns field-level details on failure.
func validateTour(input *tourapi.CreateTourInput) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "tour validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tour validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "gtopenday":
		return "must be after open_day"
	case "ticket_kind":
		return "must be a known ticket kind"
	case "schedule_frequency":
		return "must be a known schedule frequency"
	case "netcost":
		return "must not be negative"
	}
	return "is invalid"
}
