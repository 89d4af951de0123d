package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{Service: service}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login
// @Description Exchange username/password for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginInput true "Credentials"
// @Success 200 {object} map[string]string "token"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, err := c.Service.Login(ctx.UserContext(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"token": token})
}
