package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lunark/abacus-api/config"
	"github.com/lunark/abacus-api/database"
	_ "github.com/lunark/abacus-api/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lunark/abacus-api/internal/controller/admin"
	userctrl "github.com/lunark/abacus-api/internal/controller/user"
	"github.com/lunark/abacus-api/internal/exam"
	"github.com/lunark/abacus-api/internal/logger"
	"github.com/lunark/abacus-api/internal/model"
	"github.com/lunark/abacus-api/internal/repository"
	"github.com/lunark/abacus-api/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Abacus Exam API
// @version 1.0
// @description Timed mental-arithmetic exams: server-generated question sets, volatile per-user sessions, grading and result history, plus admin account management.
// @host localhost:3000
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Exam core
		fx.Provide(
			func() *exam.Generator {
				return exam.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
			},
			exam.NewSessionStore,
		),

		// Repositories
		fx.Provide(
			repository.NewUserRepository,
			repository.NewResultRepository,
		),

		// Services
		fx.Provide(
			func(gen *exam.Generator, sessions *exam.SessionStore, resultRepo repository.ResultRepository, cfg *config.Config) service.ExamService {
				return service.NewExamService(gen, sessions, resultRepo, cfg.Exam.QuestionCount)
			},
			service.NewAuthService,
			service.NewHistoryService,
			service.NewAdminService,
		),

		// Controllers
		fx.Provide(
			userctrl.NewExamController,
			userctrl.NewAuthController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	examCtrl *userctrl.ExamController,
	authCtrl *userctrl.AuthController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api")
	{
		api.POST("/login", authCtrl.Login)
		api.POST("/change-password", authCtrl.ChangePassword)

		api.GET("/levels", examCtrl.GetLevels)
		api.POST("/exam/start", examCtrl.StartExam)
		api.POST("/exam/submit", examCtrl.SubmitExam)
		api.GET("/history/:userId", examCtrl.GetHistory)

		adminGroup := api.Group("/admin")
		adminGroup.POST("/create-user", adminCtrl.CreateUser)
		adminGroup.POST("/update-user", adminCtrl.UpdateUser)
		adminGroup.DELETE("/user/:id", adminCtrl.DeleteUser)
		adminGroup.GET("/stats", adminCtrl.GetStats)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Abacus exam API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.Result{},
	); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
