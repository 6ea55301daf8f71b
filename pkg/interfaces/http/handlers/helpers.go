package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/interfaces/http/apierror"
)

var validate = validator.New()

func init() {
	// decimal.Decimal fields validate as numbers
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs the validator tags.
// On failure it writes the response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// confirmed reads the confirm=true query parameter
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// respondError maps service errors onto HTTP statuses. Anything unrecognised is
// attached to the context and answered as a 500 by the error middleware.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConfirmationRequired):
		c.JSON(http.StatusConflict, apierror.NewConfirmation())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMaterialNotFound),
		errors.Is(err, services.ErrProcessNotFound),
		errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, services.ErrProcessExists):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, services.ErrNoEligibleRecords):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidPurchaseStatus),
		errors.Is(err, services.ErrUnknownProcess),
		errors.Is(err, services.ErrInvalidBackup),
		errors.Is(err, services.ErrRosterEmpty):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}

// idsRequest carries a list of material ids
type idsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}
