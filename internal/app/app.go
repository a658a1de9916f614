package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"technicia_backend/internal/config"
	"technicia_backend/internal/controller"
	"technicia_backend/internal/jobs"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/service"
	"technicia_backend/pkg/database"
	"technicia_backend/pkg/logger"
	"technicia_backend/pkg/monitoring"
	"technicia_backend/pkg/security"
	"technicia_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	scheduler *jobs.Scheduler
}

type repositories struct {
	user      *repository.UserRepository
	profile   *repository.ProfileRepository
	skill     *repository.SkillRepository
	question  *repository.QuestionRepository
	session   *repository.SessionRepository
	answer    *repository.AnswerRepository
	violation *repository.ViolationRepository
}

type services struct {
	storage     *service.StorageService
	auth        *service.AuthService
	user        *service.UserService
	skill       *service.SkillService
	test        *service.TestService
	proctoring  *service.ProctoringService
	ai          *service.AIService
	resume      *service.ResumeService
	job         *service.JobService
	leaderboard *service.LeaderboardService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	skill       *controller.SkillController
	test        *controller.TestController
	proctoring  *controller.ProctoringController
	student     *controller.StudentController
	job         *controller.JobController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		profile:   repository.NewProfileRepository(db),
		skill:     repository.NewSkillRepository(db),
		question:  repository.NewQuestionRepository(db),
		session:   repository.NewSessionRepository(db),
		answer:    repository.NewAnswerRepository(db),
		violation: repository.NewViolationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.profile, s.storage)
	s.skill = service.NewSkillService(repos.skill)
	s.test = service.NewTestService(repos.session, repos.question, repos.answer, repos.violation, repos.skill, repos.profile)
	s.proctoring = service.NewProctoringService(repos.session, repos.violation, repos.profile)
	s.ai = service.NewAIService(cfg)
	s.resume = service.NewResumeService(repos.profile, repos.user, repos.skill, s.storage, s.ai)
	s.job = service.NewJobService(repos.skill, cfg.Jobs.CatalogPath)
	s.leaderboard = service.NewLeaderboardService(repos.session, repos.skill, repos.profile, rdb)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		skill:       controller.NewSkillController(s.skill),
		test:        controller.NewTestController(s.test),
		proctoring:  controller.NewProctoringController(s.proctoring),
		student:     controller.NewStudentController(s.resume),
		job:         controller.NewJobController(s.job),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.MigrateOnly || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Migration failed", zap.Error(err))
		}
		if cfg.MigrateOnly {
			logger.Log.Info("Migration complete, exiting")
			os.Exit(0)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("technicia-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.scheduler = jobs.NewScheduler(services.test, services.leaderboard)
	app.scheduler.Start()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
