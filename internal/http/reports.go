package http

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v4"

	"github.com/karna-27/bank-lending-system/internal/repository"
)

// listPaymentsHandler serves a customer's payment history from ClickHouse.
// The projection lags the ledger by the projector's batch window.
func listPaymentsHandler(chRepo repository.CHPaymentsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		custID := c.Param("customer_id")

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		events, err := chRepo.ListByCustomer(c.Request().Context(), custID, limit, offset)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"customer_id": custID,
			"limit":       limit,
			"offset":      offset,
			"count":       len(events),
			"results":     events,
		})
	}
}
