package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authSvc service.AuthService
}

func NewAuthController(authSvc service.AuthService) *AuthController {
	return &AuthController{authSvc: authSvc}
}

// Login godoc
// @Summary Log a user in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Credentials required"
// @Failure 401 {object} dto.ErrorResponse "Unknown user or wrong password"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Credentials required"})
		return
	}

	user, err := c.authSvc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid username or password"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change the caller's own password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "User and new password"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := c.authSvc.ChangePassword(req.UserID, req.NewPassword); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("ChangePassword: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to change password"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
