// Package http exposes the persistence layer over a JSON API. Handlers stay
// thin: decode, call the service, encode. Read failures have already been
// converted to empty results by the service layer; write failures surface
// as a JSON error body.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/models"
)

// AccountOps is the account/session surface consumed by the handlers.
type AccountOps interface {
	CurrentUser(ctx context.Context) (*models.SessionUser, error)
	Login(ctx context.Context, username, company string) (string, *models.SessionUser, error)
}

// CustomerOps is the customer surface consumed by the handlers.
type CustomerOps interface {
	List(ctx context.Context) []models.Customer
	Save(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
}

// EstimateOps is the estimate surface consumed by the handlers.
type EstimateOps interface {
	List(ctx context.Context) []models.Estimate
	Save(ctx context.Context, estimate *models.Estimate) error
	Delete(ctx context.Context, id string) error
}

// InventoryOps is the inventory surface consumed by the handlers.
type InventoryOps interface {
	List(ctx context.Context) []models.InventoryItem
	Save(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
}

// SettingsOps is the settings surface consumed by the handlers.
type SettingsOps interface {
	Load(ctx context.Context) models.Settings
	Save(ctx context.Context, value models.Settings) error
}

// BackupOps is the bulk-operation surface consumed by the handlers.
type BackupOps interface {
	Export(ctx context.Context) (*models.Snapshot, error)
	Import(ctx context.Context, raw []byte) error
	Clear(ctx context.Context) error
	UploadSnapshot(ctx context.Context, snapshot *models.Snapshot) (string, error)
}

// Handler bundles the service surfaces behind the JSON API.
type Handler struct {
	accounts  AccountOps
	customers CustomerOps
	estimates EstimateOps
	inventory InventoryOps
	settings  SettingsOps
	backups   BackupOps
	logger    logging.Logger
}

// NewHandler constructs a Handler over the given service surfaces.
func NewHandler(accounts AccountOps, customers CustomerOps, estimates EstimateOps,
	inventory InventoryOps, settings SettingsOps, backups BackupOps, logger logging.Logger) *Handler {
	return &Handler{
		accounts:  accounts,
		customers: customers,
		estimates: estimates,
		inventory: inventory,
		settings:  settings,
		backups:   backups,
		logger:    logger,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Company  string `json:"company"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}
	token, user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Company)
	if err != nil {
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.accounts.CurrentUser(c.Request.Context())
	if err != nil || user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) listCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.customers.List(c.Request.Context()))
}

func (h *Handler) saveCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer payload"})
		return
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if err := h.customers.Save(c.Request.Context(), &customer); err != nil {
		h.writeError(c, "error saving customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "error deleting customer", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listEstimates(c *gin.Context) {
	c.JSON(http.StatusOK, h.estimates.List(c.Request.Context()))
}

func (h *Handler) saveEstimate(c *gin.Context) {
	var estimate models.Estimate
	if err := c.ShouldBindJSON(&estimate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate payload"})
		return
	}
	if estimate.ID == "" {
		estimate.ID = uuid.NewString()
	}
	if err := h.estimates.Save(c.Request.Context(), &estimate); err != nil {
		h.writeError(c, "error saving estimate", err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

func (h *Handler) deleteEstimate(c *gin.Context) {
	if err := h.estimates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "error deleting estimate", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.List(c.Request.Context()))
}

func (h *Handler) saveInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inventory payload"})
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := h.inventory.Save(c.Request.Context(), &item); err != nil {
		h.writeError(c, "error saving inventory item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteInventoryItem(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "error deleting inventory item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Load(c.Request.Context()))
}

func (h *Handler) putSettings(c *gin.Context) {
	var value models.Settings
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}
	if err := h.settings.Save(c.Request.Context(), value); err != nil {
		h.writeError(c, "error saving settings", err)
		return
	}
	c.JSON(http.StatusOK, value)
}

// exportSnapshot serves the snapshot document as a downloadable attachment.
// With ?upload=1 the snapshot also goes to the configured object storage
// and the response carries a presigned download URL instead of the body.
func (h *Handler) exportSnapshot(c *gin.Context) {
	snapshot, err := h.backups.Export(c.Request.Context())
	if err != nil {
		h.writeError(c, "export failed", err)
		return
	}

	if c.Query("upload") == "1" {
		url, err := h.backups.UploadSnapshot(c.Request.Context(), snapshot)
		if err != nil {
			if errors.Is(err, common.ErrExportDisabled) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			h.writeError(c, "snapshot upload failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url, "filename": snapshot.FileName()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+snapshot.FileName()+`"`)
	c.JSON(http.StatusOK, snapshot)
}

// importSnapshot restores a snapshot document. The result is reported as a
// single boolean; a parse failure means zero records were written.
func (h *Handler) importSnapshot(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}
	if err := h.backups.Import(c.Request.Context(), raw); err != nil {
		h.logger.Error(c.Request.Context(), "import failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrSnapshotParse) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) clearAccount(c *gin.Context) {
	if err := h.backups.Clear(c.Request.Context()); err != nil {
		h.writeError(c, "clear failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	h.logger.Error(c.Request.Context(), msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
