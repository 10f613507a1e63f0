package handlers

import (
	"context"

	"github.com/craterhub/crater-api/internal/middleware"
	"github.com/craterhub/crater-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	profile, err := h.userService.GetByID(context.Background(), user.ID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
	})
}
