package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/schedule"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors report JSON (or query) names. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(fieldName)

		for tag, fn := range map[string]validator.Func{
			"hhmm":    validateHHMM,
			"isodate": validateISODate,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// hhmm accepts "HH:MM" and "HH:MM:SS" wall-clock times.
func validateHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 && len(s) != 8 {
		return false
	}
	if len(s) == 8 {
		sec := s[6:8]
		if s[5] != ':' || sec[0] < '0' || sec[0] > '5' || sec[1] < '0' || sec[1] > '9' {
			return false
		}
	}
	_, err := schedule.ParseMinutes(schedule.Normalize(s))
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := schedule.ParseDate(fl.Field().String())
	return err == nil
}
