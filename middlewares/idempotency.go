package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"denku-backend/database"
	"denku-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Idempotency processes Idempotency-Key for mutating HTTP methods. It uses its
// own short transactions so stored responses survive a handler rollback.
// Webhook/tool routes have no JWT; org/actor locals may be set by the secret
// middleware instead.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		orgID, _ := c.Locals("orgID").(string)
		actor, _ := c.Locals("userID").(string)
		if actor == "" {
			actor = "system"
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|org|actor
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(orgID))
		h.Write([]byte{'\n'})
		h.Write([]byte(actor))
		reqHash := hex.EncodeToString(h.Sum(nil))

		// ---- Phase 1: read/create "pending" under a short TX
		var existing models.IdempotencyKey
		served := false
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				// Not found -> create "pending". ON CONFLICT DO NOTHING keeps a
				// concurrent duplicate from aborting the transaction; the
				// re-read then picks up whichever request won.
				rec := models.IdempotencyKey{
					Key:            key,
					RequestHash:    reqHash,
					Method:         method,
					Path:           path,
					OrgId:          orgID,
					Actor:          actor,
					ResponseStatus: 0,
				}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
				if res.Error != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
				}
				if res.RowsAffected == 0 {
					// Lost the race: load the winner's record.
					if e2 := tx.Where("key = ?", key).First(&existing).Error; e2 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
					}
				} else {
					existing = rec
				}
			}

			// Validate existing
			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
				// Completed response stored — short-circuit (no handler run)
				served = true
				c.Status(existing.ResponseStatus)
				return c.Send(existing.ResponseBody)
			}

			// Pending/in-progress: let the request run
			return nil
		})
		if err != nil {
			return err
		}
		if served {
			return nil
		}

		// If we reached here, we need to run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		// ---- Phase 2: store the response under another short TX
		_ = database.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()
			status := c.Response().StatusCode()
			resp := c.Response().Body()
			blob := make([]byte, len(resp))
			copy(blob, resp)

			return tx.Model(&models.IdempotencyKey{}).
				Where("key = ?", key).
				Updates(map[string]any{
					"response_status": status,
					"response_body":   blob,
					"completed_at":    &now,
				}).Error
		})

		return nil
	}
}
