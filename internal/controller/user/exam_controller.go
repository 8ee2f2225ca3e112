package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
	"github.com/lunark/abacus-api/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	examSvc    service.ExamService
	historySvc service.HistoryService
}

func NewExamController(examSvc service.ExamService, historySvc service.HistoryService) *ExamController {
	return &ExamController{examSvc: examSvc, historySvc: historySvc}
}

// StartExam godoc
// @Summary Start a new exam attempt
// @Description Generates a question set for the level and opens a session for the user. Any prior unsubmitted session for the same user is replaced.
// @Tags exam
// @Accept json
// @Produce json
// @Param request body dto.StartExamRequest true "User and level"
// @Success 200 {object} dto.StartExamResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Router /exam/start [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	var req dto.StartExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartExam: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing Data"})
		return
	}

	questions, err := c.examSvc.StartExam(req.UserID, req.LevelID)
	if err != nil {
		if errors.Is(err, exam.ErrInvalidRequest) || errors.Is(err, exam.ErrUnknownLevel) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Uint("userID", req.UserID).Msg("StartExam: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start exam"})
		return
	}
	ctx.JSON(http.StatusOK, dto.StartExamResponse{Questions: questions})
}

// SubmitExam godoc
// @Summary Submit an exam attempt
// @Description Grades the answers against the stored session, persists the result and returns the summary. If persistence fails the session is kept, so the client can retry with the same answers.
// @Tags exam
// @Accept json
// @Produce json
// @Param request body dto.SubmitExamRequest true "User and positional answers (null = unanswered)"
// @Success 200 {object} dto.ExamSummary
// @Failure 400 {object} dto.ErrorResponse "NoActiveSession"
// @Failure 500 {object} dto.ErrorResponse "Result storage unavailable, retry submission"
// @Router /exam/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	var req dto.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitExam: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing Data"})
		return
	}

	summary, err := c.examSvc.SubmitExam(req.UserID, req.Answers)
	if err != nil {
		if errors.Is(err, exam.ErrNoActiveSession) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "NoActiveSession"})
			return
		}
		log.Error().Err(err).Uint("userID", req.UserID).Msg("SubmitExam: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save result, please retry"})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetHistory godoc
// @Summary Get a user's exam history
// @Description Returns the user's persisted results, newest first.
// @Tags exam
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Router /history/{userId} [get]
func (c *ExamController) GetHistory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	history, err := c.historySvc.GetUserHistory(uint(id))
	if err != nil {
		log.Error().Err(err).Uint64("userID", id).Msg("GetHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch history"})
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// GetLevels godoc
// @Summary List the level table
// @Description Returns the fixed difficulty table so clients stay in agreement with the server.
// @Tags exam
// @Produce json
// @Success 200 {array} exam.Level
// @Router /levels [get]
func (c *ExamController) GetLevels(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, exam.Levels())
}
