package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/middleware"
	"github.com/pumpledger/pump_ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.ActorContextMiddleware())

	// All ledger data is scoped to one pump (station); the pump ID is an
	// opaque tenant key supplied by the surrounding application.
	pumps := v1.Group("/pumps/:pumpID")
	registerAccountRoutes(pumps, services.Account, services.Ledger)
	registerVoucherRoutes(pumps, services.Voucher)
	registerReportingRoutes(pumps, services.Reporting)
}

// requireActor extracts the acting user's opaque ID; mutating endpoints abort
// with 400 when the header is absent.
func requireActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Actor-ID header required"})
		return "", false
	}
	return actorID, true
}

// statusForError maps service errors to HTTP status codes shared by all
// handlers.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateCode),
		errors.Is(err, apperrors.ErrDuplicateVoucherNumber),
		errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrAlreadyCancelled),
		errors.Is(err, apperrors.ErrImmutableVoucher),
		errors.Is(err, apperrors.ErrLocked),
		errors.Is(err, apperrors.ErrSystemAccountProtected):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidFormat),
		errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrNotPosted):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnbalancedLedger):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the mapped error response; internal errors get a
// generic message so service details never leak.
func respondServiceError(c *gin.Context, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
