package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
)

// reportingHandler handles financial statement and subsidiary book requests.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// registerReportingRoutes registers the statement generation routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/profit-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/cash-book", h.cashBook)
		reports.GET("/day-book", h.dayBook)
	}
}

// parseAsOf reads the optional asOf query date, defaulting to today, widened
// to the end of the day.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	asOf := time.Now().UTC()
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date"})
			return time.Time{}, false
		}
		asOf = parsed
	}
	return endOfDay(asOf), true
}

// parsePeriod reads the mandatory from/to query dates.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing from date"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing to date"})
		return time.Time{}, time.Time{}, false
	}
	return from, endOfDay(to), true
}

// trialBalance godoc
// @Summary Generate a trial balance
// @Description Lists every active account's closing balance in debit/credit columns; fails when the ledger does not balance
// @Tags reports
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   asOf query string false "As-of date (yyyy-mm-dd, default today)"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 422 {object} map[string]string "Ledger out of balance"
// @Router /pumps/{pumpID}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	pumpID := c.Param("pumpID")
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), pumpID, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, report)
}

// profitAndLoss godoc
// @Summary Generate a profit and loss statement
// @Tags reports
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   from query string true "Period start (yyyy-mm-dd)"
// @Param   to query string true "Period end (yyyy-mm-dd)"
// @Success 200 {object} domain.ProfitLossReport
// @Router /pumps/{pumpID}/reports/profit-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	pumpID := c.Param("pumpID")
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), pumpID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to generate profit and loss")
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Generate a balance sheet
// @Tags reports
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   asOf query string false "As-of date (yyyy-mm-dd, default today)"
// @Success 200 {object} domain.BalanceSheetReport
// @Router /pumps/{pumpID}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	pumpID := c.Param("pumpID")
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), pumpID, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

// cashBook godoc
// @Summary Generate a cash book for one account
// @Tags reports
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   accountID query string true "Cash or bank account ID"
// @Param   from query string true "Period start (yyyy-mm-dd)"
// @Param   to query string true "Period end (yyyy-mm-dd)"
// @Success 200 {object} domain.CashBookReport
// @Router /pumps/{pumpID}/reports/cash-book [get]
func (h *reportingHandler) cashBook(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID query parameter required"})
		return
	}
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CashBook(c.Request.Context(), pumpID, accountID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to generate cash book")
		return
	}

	c.JSON(http.StatusOK, report)
}

// dayBook godoc
// @Summary Generate a day book
// @Description Chronological listing of every posted voucher in the period with per-voucher totals
// @Tags reports
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   from query string true "Period start (yyyy-mm-dd)"
// @Param   to query string true "Period end (yyyy-mm-dd)"
// @Success 200 {object} domain.DayBookReport
// @Router /pumps/{pumpID}/reports/day-book [get]
func (h *reportingHandler) dayBook(c *gin.Context) {
	pumpID := c.Param("pumpID")
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.DayBook(c.Request.Context(), pumpID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to generate day book")
		return
	}

	c.JSON(http.StatusOK, report)
}
