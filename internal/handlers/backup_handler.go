package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khata-pos/internal/backup"
	"khata-pos/internal/models"
)

// Archive kinds
const (
	KindFull      = "full"
	KindInventory = "inventory"
)

// ExportBackup downloads the whole shop as one JSON file.
func (h *Handler) ExportBackup(c *gin.Context) {
	data, err := h.Store.Export()
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "application/json", backup.FileName("khata_backup", h.Now()), data)
}

// ImportBackup restores a backup file. A rejected file changes nothing.
func (h *Handler) ImportBackup(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badInput(c, "Could not read upload")
		return
	}
	if err := h.Store.Import(data); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("📥 backup imported", zap.Int("bytes", len(data)))
	c.JSON(http.StatusOK, gin.H{"message": "Data restored successfully", "safeMode": h.Store.SafeMode()})
}

func (h *Handler) ExportInventory(c *gin.Context) {
	data, err := h.Store.ExportInventory()
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "application/json", backup.FileName("inventory", h.Now()), data)
}

// ImportInventory replaces the catalog with a bare product array.
func (h *Handler) ImportInventory(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badInput(c, "Could not read upload")
		return
	}
	n, err := h.Store.ImportInventory(data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory imported", "count": n})
}

type ArchiveRequest struct {
	Kind string `json:"kind"`
	Note string `json:"note"`
}

func (h *Handler) archiveReady(c *gin.Context) bool {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Backup archive is not configured (DB_DSN)"})
		return false
	}
	return true
}

// SaveArchive stores the current backup in the database.
func (h *Handler) SaveArchive(c *gin.Context) {
	if !h.archiveReady(c) {
		return
	}
	var req ArchiveRequest
	_ = c.ShouldBindJSON(&req)

	// 1. Encode what we are archiving
	var (
		data []byte
		err  error
		name string
	)
	switch req.Kind {
	case KindInventory:
		data, err = h.Store.ExportInventory()
		name = backup.FileName("inventory", h.Now())
	case KindFull, "":
		req.Kind = KindFull
		data, err = h.Store.Export()
		name = backup.FileName("khata_backup", h.Now())
	default:
		badInput(c, "kind must be full or inventory")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	// 2. Save it
	rec, err := h.Archive.Save(c.Request.Context(), models.BackupRecord{
		Kind:    req.Kind,
		Name:    name,
		Note:    req.Note,
		Station: h.Station,
		Payload: data,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("🗄️ backup archived", zap.Uint("id", rec.ID), zap.String("kind", rec.Kind), zap.Int("bytes", rec.Size))
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListArchive(c *gin.Context) {
	if !h.archiveReady(c) {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.Archive.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RestoreArchive imports an archived backup as if it were uploaded.
func (h *Handler) RestoreArchive(c *gin.Context) {
	if !h.archiveReady(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badInput(c, "Invalid archive ID")
		return
	}
	rec, err := h.Archive.Load(c.Request.Context(), uint(id))
	if err != nil {
		h.fail(c, err)
		return
	}

	if rec.Kind == KindInventory {
		n, err := h.Store.ImportInventory(rec.Payload)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Inventory restored", "count": n})
		return
	}
	if err := h.Store.Import(rec.Payload); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data restored successfully", "safeMode": h.Store.SafeMode()})
}
