package http

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/karna-27/bank-lending-system/internal/ledger"
	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/service/lending"
)

// LendingService is what the handlers need from the lending service.
type LendingService interface {
	CreateLoan(ctx context.Context, in lending.CreateLoanInput) (ledger.LoanCreated, error)
	RecordPayment(ctx context.Context, loanID string, amount float64, paymentType model.PaymentType) (ledger.PaymentReceipt, error)
	Ledger(ctx context.Context, loanID string) (ledger.Ledger, error)
	Overview(ctx context.Context, customerID string) (ledger.Overview, error)
}

// Pointers tell a missing field apart from a zero one.
type createLoanReq struct {
	CustomerID         string   `json:"customer_id"`
	LoanAmount         *float64 `json:"loan_amount"`
	LoanPeriodYears    *float64 `json:"loan_period_years"`
	InterestRateYearly *float64 `json:"interest_rate_yearly"`
}

type paymentReq struct {
	Amount      *float64 `json:"amount"`
	PaymentType string   `json:"payment_type"` // "EMI" | "LUMP_SUM"
}

func createLoanHandler(svc LendingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createLoanReq
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "bad request")
		}

		req.CustomerID = strings.TrimSpace(req.CustomerID)
		if req.CustomerID == "" || req.LoanAmount == nil || req.LoanPeriodYears == nil || req.InterestRateYearly == nil {
			return badRequest(c, "customer_id, loan_amount, loan_period_years and interest_rate_yearly are required")
		}

		years, ok := wholeYears(*req.LoanPeriodYears)
		if !ok {
			return badRequest(c, "loan_period_years must be a whole number")
		}

		out, err := svc.CreateLoan(c.Request().Context(), lending.CreateLoanInput{
			CustomerID:        req.CustomerID,
			Principal:         *req.LoanAmount,
			PeriodYears:       years,
			YearlyRatePercent: *req.InterestRateYearly,
		})
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusCreated, out)
	}
}

// wholeYears accepts 5 and 5.0 but not 5.5. Range checks belong to the engine.
func wholeYears(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

func recordPaymentHandler(svc LendingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req paymentReq
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "bad request")
		}
		if req.Amount == nil {
			return badRequest(c, "amount is required")
		}

		typ, ok := model.ParsePaymentType(req.PaymentType)
		if !ok {
			return badRequest(c, "payment_type must be EMI or LUMP_SUM")
		}

		receipt, err := svc.RecordPayment(c.Request().Context(), c.Param("loan_id"), *req.Amount, typ)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusOK, receipt)
	}
}

func ledgerHandler(svc LendingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, err := svc.Ledger(c.Request().Context(), c.Param("loan_id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, view)
	}
}

func overviewHandler(svc LendingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, err := svc.Overview(c.Request().Context(), c.Param("customer_id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, view)
	}
}
