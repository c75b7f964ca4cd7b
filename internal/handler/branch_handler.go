package handler

import (
	"clinic-admin-api/internal/service"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	branchService *service.BranchService
}

func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

// ListBranches returns the tenant's branches ordered by name
func (h *BranchHandler) ListBranches(c *gin.Context) {
	branches, err := h.branchService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, branches)
}
