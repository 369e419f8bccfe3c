package audit

import (
	"strconv"

	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=&entity_id=&page=&limit=
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{})

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if eid := c.Query("entity_id"); eid != "" {
			id, err := strconv.Atoi(eid)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id must be a number")
			}
			q = q.Where("entity_id = ?", id)
		}

		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var total int64
		q.Count(&total)

		var logs []models.AuditLog
		if err := q.Order("created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(fiber.Map{
			"data":  logs,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}
