package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"farmledger/internal/apierror"
	"farmledger/internal/model"
	"farmledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json names so field errors match the request body.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req, "")
}

func validateStruct(c *gin.Context, req interface{}, prefix string) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[prefix+fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// bindOneOrMany accepts either a JSON object or a JSON array of objects.
// many reports which form was sent.
func bindOneOrMany[T any](c *gin.Context) (items []T, many bool, ok bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("unreadable body"))
		return nil, false, false
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid JSON: "+err.Error()))
			return nil, true, false
		}
		for i := range items {
			if !validateStruct(c, &items[i], fmt.Sprintf("[%d].", i)) {
				return nil, true, false
			}
		}
		return items, true, true
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid JSON: "+err.Error()))
		return nil, false, false
	}
	if !validateStruct(c, &one, "") {
		return nil, false, false
	}
	return []T{one}, false, true
}

// bindQuery binds the query string into filter; a bad value yields 422.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// visibility reads ?visibility=active|deleted|all, defaulting to active.
func visibility(c *gin.Context) (model.Visibility, bool) {
	v, ok := model.ParseVisibility(c.Query("visibility"))
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(map[string]string{
			"visibility": "must be one of active, deleted, all",
		}))
		return "", false
	}
	return v, true
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var fe *service.FieldErrors
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, &apierror.ValidationError{Detail: "validation error", Fields: fe.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
