package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// registerAccountRoutes registers routes related to accounts and their ledgers.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := &accountHandler{accountService: accountService, ledgerService: ledgerService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/seed", h.seedDefaultChart)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.GET("/:accountID/ledger", h.listLedgerEntries)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.POST("/:accountID/recalculate", h.recalculateRunningBalances)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account in the pump's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Duplicate account code"
// @Router /pumps/{pumpID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pumpID := c.Param("pumpID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), pumpID, req, actorID)
	if err != nil {
		logger.Warn("Failed to create account", slog.String("error", err.Error()), slog.String("code", req.Code))
		respondServiceError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// seedDefaultChart godoc
// @Summary Seed the default chart of accounts
// @Description Idempotently creates the standard system accounts for the pump
// @Tags accounts
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Success 201 {object} dto.ListAccountsResponse
// @Router /pumps/{pumpID}/accounts/seed [post]
func (h *accountHandler) seedDefaultChart(c *gin.Context) {
	pumpID := c.Param("pumpID")

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	created, err := h.accountService.SeedDefaultChart(c.Request.Context(), pumpID, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to seed default chart")
		return
	}

	c.JSON(http.StatusCreated, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(created)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /pumps/{pumpID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), pumpID, accountID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts for a pump
// @Tags accounts
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Offset"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /pumps/{pumpID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	pumpID := c.Param("pumpID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), pumpID, limit, offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 409 {object} map[string]string "Account locked"
// @Router /pumps/{pumpID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), pumpID, accountID, req, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account without ledger activity; system accounts are protected
// @Tags accounts
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "System account or locked"
// @Router /pumps/{pumpID}/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), pumpID, accountID, actorID); err != nil {
		respondServiceError(c, err, "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}

// listLedgerEntries godoc
// @Summary List ledger entries for an account
// @Tags ledger
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Start date (yyyy-mm-dd)"
// @Param   to query string false "End date (yyyy-mm-dd)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Router /pumps/{pumpID}/accounts/{accountID}/ledger [get]
func (h *accountHandler) listLedgerEntries(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), pumpID, accountID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list ledger entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Compute an account balance
// @Description Returns the natural-signed balance as of a date, or the net movement when both from and to are given
// @Tags ledger
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance as of date (yyyy-mm-dd, default today)"
// @Param   from query string false "Period start (yyyy-mm-dd)"
// @Param   to query string false "Period end (yyyy-mm-dd)"
// @Success 200 {object} dto.BalanceResponse
// @Router /pumps/{pumpID}/accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr != "" && toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		balance, err := h.ledgerService.BalanceForPeriod(c.Request.Context(), pumpID, accountID, from, endOfDay(to))
		if err != nil {
			respondServiceError(c, err, "Failed to compute period movement")
			return
		}
		c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, AsOf: to, Balance: balance})
		return
	}

	asOf := time.Now().UTC()
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date"})
			return
		}
		asOf = parsed
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), pumpID, accountID, endOfDay(asOf))
	if err != nil {
		respondServiceError(c, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, AsOf: asOf, Balance: balance})
}

// recalculateRunningBalances godoc
// @Summary Repair an account's running balances
// @Description Replays the account's ledger from the opening balance, used after backdated postings
// @Tags ledger
// @Param   pumpID path string true "Pump ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Router /pumps/{pumpID}/accounts/{accountID}/recalculate [post]
func (h *accountHandler) recalculateRunningBalances(c *gin.Context) {
	pumpID := c.Param("pumpID")
	accountID := c.Param("accountID")

	if _, ok := requireActor(c); !ok {
		return
	}

	if err := h.ledgerService.RecalculateRunningBalances(c.Request.Context(), pumpID, accountID); err != nil {
		respondServiceError(c, err, "Failed to recalculate running balances")
		return
	}

	c.Status(http.StatusNoContent)
}

// endOfDay widens a date-only bound to include the whole day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
