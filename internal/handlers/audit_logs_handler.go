package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAuditLogsHandler reads the trail written by audit.Dispatcher. Day
// filters are interpreted in loc.
func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: timezone.Resolve("", loc)}
}

// auditQuery holds the optional filters of the operator listing.
type auditQuery struct {
	BarbershopID string
	CustomerID   string
	Action       string
	Entity       string
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

func (h *AuditLogsHandler) parseQuery(c *gin.Context) (auditQuery, error) {
	q := auditQuery{
		BarbershopID: c.Query("barbershop_id"),
		CustomerID:   c.Query("customer_id"),
		Action:       c.Query("action"),
		Entity:       c.Query("entity"),
		Page:         atoiOr(c.Query("page"), 1),
		Limit:        atoiOr(c.Query("limit"), auditDefaultLimit),
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > auditMaxLimit {
		q.Limit = auditDefaultLimit
	}

	if v := c.Query("from"); v != "" {
		from, err := timezone.ParseDate(v, h.loc)
		if err != nil {
			return q, err
		}
		q.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := timezone.ParseDate(v, h.loc)
		if err != nil {
			return q, err
		}
		// inclusive: up to the start of the next day
		end := to.AddDate(0, 0, 1)
		q.To = &end
	}
	return q, nil
}

func (q auditQuery) scope(db *gorm.DB) *gorm.DB {
	if q.BarbershopID != "" {
		db = db.Where("barbershop_id = ?", q.BarbershopID)
	}
	if q.CustomerID != "" {
		db = db.Where("customer_id = ?", q.CustomerID)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		db = db.Where("entity = ?", q.Entity)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", q.From.UTC())
	}
	if q.To != nil {
		db = db.Where("created_at < ?", q.To.UTC())
	}
	return db
}

// List pages through the audit trail, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	q, err := h.parseQuery(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida. Use AAAA-MM-DD.")
		return
	}

	base := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Scopes(q.scope)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	logs := make([]models.AuditLog, 0, q.Limit)
	if err := base.
		Order("created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
		"data":  logs,
	})
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
