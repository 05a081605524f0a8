package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateTimeLayout is the only timestamp form the API accepts.
const DateTimeLayout = "2006-01-02T15:04:05Z"

const dateTimeMessage = "Invalid DateTime format, expected: YYYY-MM-DDTHH:mm:ssZ"

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		err = v.RegisterValidation("utcdatetime", validateUTCDateTime)
	})
	return err
}

func validateUTCDateTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len(DateTimeLayout) {
		return false
	}
	_, err := time.Parse(DateTimeLayout, value)
	return err == nil
}

type timeRangeRequest struct {
	StartTime string `json:"startTime" binding:"required,utcdatetime"`
	EndTime   string `json:"endTime" binding:"required,utcdatetime"`
}

func (r *timeRangeRequest) interval() (model.Interval, error) {
	start, err := time.Parse(DateTimeLayout, r.StartTime)
	if err != nil {
		return model.Interval{}, fmt.Errorf("parse startTime: %w", err)
	}
	end, err := time.Parse(DateTimeLayout, r.EndTime)
	if err != nil {
		return model.Interval{}, fmt.Errorf("parse endTime: %w", err)
	}
	return model.NewInterval(start, end), nil
}

type statusRequest struct {
	Status model.AppointmentStatus `json:"status" binding:"required"`
}

type registerRequest struct {
	Name           string     `json:"name" binding:"required,max=200"`
	Email          string     `json:"email" binding:"required,email"`
	Role           model.Role `json:"role" binding:"required,oneof=PROFESSOR STUDENT"`
	TelegramChatID *int64     `json:"telegramChatId"`
}

type recurringRequest struct {
	Weekdays        []int               `json:"weekdays" binding:"required,min=1,dive,min=0,max=6"`
	Times           []service.TimeOfDay `json:"times" binding:"required,min=1"`
	DurationMinutes int                 `json:"durationMinutes" binding:"required,min=1,max=1440"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validationMessages(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Message: "Malformed request body"}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "utcdatetime":
		return dateTimeMessage
	case "email":
		return "Invalid email address"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "min", "max":
		return fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
