package api

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"study-tracker/internal/model"
)

var registerOnce sync.Once

// registerValidators adds the domain rules used in binding tags.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("area", func(fl validator.FieldLevel) bool {
			return model.Area(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("intensity", func(fl validator.FieldLevel) bool {
			return model.Intensity(fl.Field().String()).Valid()
		})
	})
}
