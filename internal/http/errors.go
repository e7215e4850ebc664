package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karna-27/bank-lending-system/internal/ledger"
	"github.com/karna-27/bank-lending-system/internal/loan"
	"github.com/karna-27/bank-lending-system/internal/service/lending"
)

// writeError maps domain errors to responses. Anything unrecognised is a 500
// whose cause is only logged.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loan.ErrInvalidLoanTerms), errors.Is(err, loan.ErrInvalidPaymentInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, loan.ErrLoanAlreadyPaidOff):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": ledger.AlreadyPaidOffMessage})
	case errors.Is(err, lending.ErrLoanNotFound), errors.Is(err, lending.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		c.Logger().Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
