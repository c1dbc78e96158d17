package controllers

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type registerDTO struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	OrgName         string `json:"org_name" validate:"required,max=120"`
}

// Register creates the profile, its organization and the default settings row
// in one transaction. The first profile of an org is its owner.
func Register(c *fiber.Ctx) error {
	var data registerDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	if data.Password != data.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	var mailExist models.Profile
	database.DB.Where("email = ?", data.Email).First(&mailExist)
	if mailExist.Email != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	slug, err := makeSlug(data.OrgName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid organization name",
		})
	}

	var org models.Organization
	var profile models.Profile
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		org = models.Organization{Name: data.OrgName, Slug: slug}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		settings := models.OrganizationSettings{
			OrgId:           org.Id,
			PlanID:          "free",
			WorkspaceStatus: models.WorkspaceActive,
			BillingEmail:    data.Email,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}

		profile = models.Profile{
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Email:     data.Email,
			OrgId:     org.Id,
			Role:      models.RoleOwner,
		}
		profile.SetPassword(data.Password)
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		utils.Audit(tx, org.Id, profile.Id, "org.signup", "organization", fiber.Map{
			"org_name": data.OrgName,
		})
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not complete registration",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"organization": org,
		"user": fiber.Map{
			"id":    profile.Id,
			"name":  profile.FirstName + " " + profile.LastName,
			"email": profile.Email,
			"role":  profile.Role,
		},
	})
}

// makeSlug lowercases the org name and keeps letters/digits/hyphens; a
// numeric suffix disambiguates collisions.
func makeSlug(name string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid organization name")
	}

	candidate := slug
	for i := 2; i <= 20; i++ {
		var n int64
		database.DB.Model(&models.Organization{}).Where("slug = ?", candidate).Count(&n)
		if n == 0 {
			return candidate, nil
		}
		candidate = slug + "-" + strconv.Itoa(i)
	}
	// Pathological collision run; a timestamp suffix is always free enough.
	return slug + "-" + time.Now().UTC().Format("060102150405"), nil
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid email format",
		})
	}

	var profile models.Profile
	database.DB.Where("email = ?", data["email"]).First(&profile)
	if profile.Id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	if err := profile.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid credentials",
		})
	}

	token, err := middlewares.GenerateJWT(profile.Id, profile.OrgId, profile.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "could not issue token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":     profile.Id,
			"name":   profile.FirstName + " " + profile.LastName,
			"email":  profile.Email,
			"org_id": profile.OrgId,
			"role":   profile.Role,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
