package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khata-pos/internal/ai"
	"khata-pos/internal/auth"
	"khata-pos/internal/backup"
	"khata-pos/internal/barcode"
	"khata-pos/internal/billing"
	"khata-pos/internal/database"
	"khata-pos/internal/feedback"
	"khata-pos/internal/ledger"
	"khata-pos/internal/render"
	"khata-pos/internal/reports"
	"khata-pos/internal/stock"
	"khata-pos/internal/store"
)

// Deps is everything the HTTP layer talks to. Archive, AI and Scanner are optional.
type Deps struct {
	Store   *store.Store
	PINs    auth.Authorizer
	Archive *database.Archive
	AI      *ai.Client
	Hub     *feedback.Hub
	Scanner *barcode.Scanner
	Push    *barcode.PushSource
	Shop    render.ShopInfo
	Station string
	Log     *zap.Logger
	Now     func() time.Time
	// Context bounds background scanner sessions; cancelled on shutdown.
	Context context.Context
}

// Handler serves the counter and back-office API.
type Handler struct {
	Deps
	assistant *ai.Assistant
	session   barcode.Session
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Hub == nil {
		d.Hub = feedback.NewHub(d.Log)
	}
	return &Handler{Deps: d, assistant: ai.NewAssistant(d.AI, d.Store)}
}

// Close stops a running scanner session.
func (h *Handler) Close() {
	h.session.Stop()
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, database.ErrBackupNotFound),
		errors.Is(err, stock.ErrNoPendingEdit):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSafeMode):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrAuthFailed):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrDenied):
		return http.StatusUnauthorized
	case errors.Is(err, billing.ErrInvalidCode),
		errors.Is(err, billing.ErrEmptyCode),
		errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrInvalidManualTotal),
		errors.Is(err, billing.ErrUnknownMethod),
		errors.Is(err, store.ErrInvalidBillType),
		errors.Is(err, backup.ErrMalformed),
		errors.Is(err, backup.ErrNotArray),
		errors.Is(err, reports.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, billing.ErrOutOfStock),
		errors.Is(err, billing.ErrEmptyCart),
		errors.Is(err, billing.ErrSplitMismatch),
		errors.Is(err, billing.ErrCounterpartyRequired),
		errors.Is(err, stock.ErrReasonRequired),
		errors.Is(err, stock.ErrInvalidReason),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, backup.ErrNoKnownKeys),
		errors.Is(err, auth.ErrWeakPIN),
		errors.Is(err, store.ErrInvalidProduct),
		errors.Is(err, store.ErrInvalidTech),
		errors.Is(err, store.ErrManualInactive),
		errors.Is(err, store.ErrInvalidTechCode):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badInput(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func attachment(c *gin.Context, contentType, name string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, data)
}
