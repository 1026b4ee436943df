package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/middleware"
)

// voucherHandler handles HTTP requests driving the voucher lifecycle.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.PUT("/:voucherID", h.updateVoucher)
		vouchers.POST("/:voucherID/approve", h.approveVoucher)
		vouchers.POST("/:voucherID/post", h.postVoucher)
		vouchers.POST("/:voucherID/cancel", h.cancelVoucher)
		vouchers.POST("/:voucherID/reconcile", h.reconcileVoucher)
		vouchers.POST("/:voucherID/unreconcile", h.unreconcileVoucher)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Creates a balanced voucher in DRAFT status; a voucher number is allocated when absent
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Unbalanced entries or validation error"
// @Failure 409 {object} map[string]string "Duplicate voucher number"
// @Router /pumps/{pumpID}/vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pumpID := c.Param("pumpID")

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), pumpID, req, actorID)
	if err != nil {
		logger.Warn("Failed to create voucher", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher with its entries
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /pumps/{pumpID}/vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	pumpID := c.Param("pumpID")
	voucherID := c.Param("voucherID")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), pumpID, voucherID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   from query string false "Start date (yyyy-mm-dd)"
// @Param   to query string false "End date (yyyy-mm-dd)"
// @Param   status query string false "Lifecycle status filter"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListVouchersResponse
// @Router /pumps/{pumpID}/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	pumpID := c.Param("pumpID")

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), pumpID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateVoucher godoc
// @Summary Update a non-posted voucher
// @Description Replaces the voucher's entries wholesale and demotes it to DRAFT
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Param   voucher body dto.UpdateVoucherRequest true "Fields and entries to replace"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher already posted"
// @Router /pumps/{pumpID}/vouchers/{voucherID} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pumpID := c.Param("pumpID")
	voucherID := c.Param("voucherID")

	var req dto.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), pumpID, voucherID, req, actorID)
	if err != nil {
		respondServiceError(c, err, "Failed to update voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// approveVoucher godoc
// @Summary Approve a draft voucher
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Router /pumps/{pumpID}/vouchers/{voucherID}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	h.transition(c, h.voucherService.ApproveVoucher, "Failed to approve voucher")
}

// postVoucher godoc
// @Summary Post an approved voucher
// @Description Irreversibly posts the voucher and materializes its ledger entries
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Already posted or cancelled"
// @Router /pumps/{pumpID}/vouchers/{voucherID}/post [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	h.transition(c, h.voucherService.PostVoucher, "Failed to post voucher")
}

// cancelVoucher godoc
// @Summary Cancel a voucher
// @Description Cancels a draft/approved voucher directly; a posted voucher is cancelled by generating and posting a reversing voucher, which is returned
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Param   cancellation body dto.CancelVoucherRequest true "Cancellation reason"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Already cancelled"
// @Router /pumps/{pumpID}/vouchers/{voucherID}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pumpID := c.Param("pumpID")
	voucherID := c.Param("voucherID")

	var req dto.CancelVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancellation reason required: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.CancelVoucher(c.Request.Context(), pumpID, voucherID, actorID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel voucher")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// reconcileVoucher godoc
// @Summary Mark a posted voucher reconciled
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Router /pumps/{pumpID}/vouchers/{voucherID}/reconcile [post]
func (h *voucherHandler) reconcileVoucher(c *gin.Context) {
	h.transition(c, h.voucherService.ReconcileVoucher, "Failed to reconcile voucher")
}

// unreconcileVoucher godoc
// @Summary Clear a voucher's reconciliation flag
// @Tags vouchers
// @Produce  json
// @Param   pumpID path string true "Pump ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Router /pumps/{pumpID}/vouchers/{voucherID}/unreconcile [post]
func (h *voucherHandler) unreconcileVoucher(c *gin.Context) {
	h.transition(c, h.voucherService.UnreconcileVoucher, "Failed to unreconcile voucher")
}

// transition factors the shared shape of the lifecycle endpoints.
func (h *voucherHandler) transition(c *gin.Context, op func(ctx context.Context, pumpID, voucherID, actorID string) (*domain.Voucher, error), fallback string) {
	pumpID := c.Param("pumpID")
	voucherID := c.Param("voucherID")

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	voucher, err := op(c.Request.Context(), pumpID, voucherID, actorID)
	if err != nil {
		respondServiceError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
