package validation

import (
	"bytes"
	"io"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/duccv/service-kit/internal/constant"
)

// Gin context keys holding the validated values.
const (
	BodyKey   = "validatedBody"
	ParamsKey = "validatedParams"
)

var validate = validator.New()

func isEmptyInterface[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t == reflect.TypeOf((*any)(nil)).Elem()
}

func abortInvalid(c *gin.Context, err error) {
	resData := constant.INVALID_REQUEST
	resData.Error = err.Error()
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, resData)
}

// Validate binds and validates the JSON body B and the path parameters P of
// a request. Pass any for a part that should be skipped.
func Validate[B any, P any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isEmptyInterface[B]() {
			var body B

			rawData, err := io.ReadAll(c.Request.Body)
			if err != nil {
				abortInvalid(c, err)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))

			if err := c.ShouldBindJSON(&body); err != nil {
				abortInvalid(c, err)
				return
			}
			if err := validate.Struct(body); err != nil {
				abortInvalid(c, err)
				return
			}

			// Restore the body so later handlers can read it again
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))
			c.Set(BodyKey, body)
		}

		if !isEmptyInterface[P]() {
			var params P

			if err := c.ShouldBindUri(&params); err != nil {
				abortInvalid(c, err)
				return
			}
			if err := validate.Struct(params); err != nil {
				abortInvalid(c, err)
				return
			}

			c.Set(ParamsKey, params)
		}

		c.Next()
	}
}
