package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
	"github.com/lunark/abacus-api/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminController struct {
	adminSvc service.AdminService
}

func NewAdminController(adminSvc service.AdminService) *AdminController {
	return &AdminController{adminSvc: adminSvc}
}

// CreateUser godoc
// @Summary (Admin) Register a new student
// @Tags admin
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Student account data"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or username taken"
// @Router /admin/create-user [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing fields"})
		return
	}

	if err := c.adminSvc.CreateUser(req); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, exam.ErrUnknownLevel) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("CreateUser: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// UpdateUser godoc
// @Summary (Admin) Update a student's levels and optionally their password
// @Tags admin
// @Accept json
// @Produce json
// @Param user body dto.UpdateUserRequest true "Update payload"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/update-user [post]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing fields"})
		return
	}

	if err := c.adminSvc.UpdateUser(req); err != nil {
		if errors.Is(err, exam.ErrUnknownLevel) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Uint("userID", req.UserID).Msg("UpdateUser: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update user"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// DeleteUser godoc
// @Summary (Admin) Delete a student and their results
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/user/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "User ID required"})
		return
	}

	if err := c.adminSvc.DeleteUser(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		log.Error().Err(err).Uint64("userID", id).Msg("DeleteUser: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete user"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// GetStats godoc
// @Summary (Admin) Per-student exam counts and average scores
// @Tags admin
// @Produce json
// @Success 200 {array} dto.StudentStats
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.adminSvc.GetStudentStats()
	if err != nil {
		log.Error().Err(err).Msg("GetStats: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch stats"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
