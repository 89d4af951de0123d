package user

import (
	common_models "go-procure/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

type createUserInput struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Phone     string   `json:"phone"`
	Roles     []string `json:"roles"`
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserInput true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input createUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Username == "" || input.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	user := &common_models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Roles:     input.Roles,
	}

	created, err := c.Service.CreateUser(ctx.UserContext(), user, input.Password)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Filter by role name"
// @Success 200 {array} models.User
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *fiber.Ctx) error {
	if roleName := ctx.Query("role"); roleName != "" {
		users, err := c.Service.ListUsersByRole(ctx.UserContext(), roleName)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.JSON(users)
	}

	users, err := c.Service.ListUsers(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(users)
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	user, err := c.Service.GetUser(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if user == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return ctx.JSON(user)
}

// UpdateRoles godoc
// @Summary Replace a user's roles
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body map[string][]string true "Roles"
// @Success 200 {object} map[string]string "Roles updated"
// @Router /api/users/{id}/roles [put]
func (c *UserController) UpdateRoles(ctx *fiber.Ctx) error {
	var body struct {
		Roles []string `json:"roles"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateRoles(ctx.UserContext(), ctx.Params("id"), body.Roles); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Roles updated"})
}
