package handler

import (
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/service"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser adds a user to the tenant. The response carries the user's API
// token; it is not retrievable afterwards.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.CreatedResponse(c, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, users)
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.AssignRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AssignRole(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// AssociateBranches replaces the user's branch assignments
func (h *UserHandler) AssociateBranches(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.AssociateBranchesRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AssociateBranches(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}
