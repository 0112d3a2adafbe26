package app

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/controller"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/configwatcher"
	"ai_tutor_backend/pkg/database"
	"ai_tutor_backend/pkg/logger"
	"ai_tutor_backend/pkg/monitoring"
	"ai_tutor_backend/pkg/security"
	"ai_tutor_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	services        *services
	origins         *security.OriginAllowList
	shutdownTracer  func(context.Context) error
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	chapter  *repository.ChapterRepository
	homework *repository.HomeworkRepository
	progress *repository.ProgressRepository
	doubt    *repository.DoubtRepository
}

type services struct {
	external externalServices
	auth     *service.AuthService
	storage  *service.StorageService
	executor *service.GenerationExecutor
	enricher *service.ChapterEnricher
	course   *service.CourseService
	chapter  *service.ChapterService
	homework *service.HomeworkService
	chat     *service.ChatService
	user     *service.UserService
	progress *service.ProgressService
}

// externalServices 可选的外部服务，未配置时为 nil
type externalServices struct {
	AI     service.ContentGenerator
	Videos service.VideoFinder
}

type controllers struct {
	auth     *controller.AuthController
	course   *controller.CourseController
	chapter  *controller.ChapterController
	chat     *controller.ChatController
	homework *controller.HomeworkController
	progress *controller.ProgressController
	user     *controller.UserController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		chapter:  repository.NewChapterRepository(db),
		homework: repository.NewHomeworkRepository(db),
		progress: repository.NewProgressRepository(db),
		doubt:    repository.NewDoubtRepository(db),
	}
}

func (a *App) initExternal(ctx context.Context, cfg *config.Config) externalServices {
	deps := externalServices{AI: service.NewContentGenerator(cfg.AI)}
	if deps.AI == nil {
		logger.Log.Warn("AI service not configured, generation features are disabled")
	}

	videos, err := service.NewVideoFinder(ctx, cfg.YouTube)
	if err != nil {
		logger.Log.Error("Failed to initialize video search", zap.Error(err))
	}
	if videos == nil {
		logger.Log.Warn("Video search not configured, chapters will have no videos")
	}
	deps.Videos = videos
	return deps
}

func (a *App) initServices(ctx context.Context, repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{external: a.initExternal(ctx, cfg)}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	s.storage = storage

	var lock service.GenerationLock = service.NewMemoryLock()
	if rdb != nil {
		lock = service.NewRedisLock(rdb, time.Duration(cfg.Generation.LockTTLMinutes)*time.Minute)
	}
	s.executor = service.NewGenerationExecutor(lock)

	s.enricher = &service.ChapterEnricher{
		Generator:       s.external.AI,
		Videos:          s.external.Videos,
		ChapterRepo:     repos.chapter,
		HomeworkRepo:    repos.homework,
		Policy:          service.DefaultEnrichmentPolicy(),
		IncludeHomework: cfg.Generation.IncludeHomework,
	}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.chapter, repos.progress, s.external.AI, s.enricher, s.executor)
	s.chapter = service.NewChapterService(repos.chapter, s.enricher)
	s.homework = service.NewHomeworkService(repos.chapter, repos.course, repos.homework, repos.progress, s.external.AI, s.enricher, s.storage)
	s.chat = service.NewChatService(repos.chapter, repos.doubt, s.external.AI)
	s.user = service.NewUserService(repos.user, s.course)
	s.progress = service.NewProgressService(repos.chapter, repos.progress)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		course:   controller.NewCourseController(s.course),
		chapter:  controller.NewChapterController(s.chapter),
		chat:     controller.NewChatController(s.chat),
		homework: controller.NewHomeworkController(s.homework),
		progress: controller.NewProgressController(s.progress),
		user:     controller.NewUserController(s.user),
		health:   controller.NewHealthController(db, s.external.AI, s.external.Videos),
	}
}

// NewApp configPath 为配置目录，用于热加载监听
func NewApp(cfg *config.Config, configPath string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)
	debug := cfg.Server.Mode == gin.DebugMode

	db, err := database.Open(&cfg.Database, debug)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	// release 模式默认不自动迁移，使用 migrate 子命令或 --migrate
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		if rdb, err = database.InitRedis(&cfg.Redis); err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
	}

	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		DB:         db,
		Redis:      rdb,
		origins:    security.NewOriginAllowList(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(context.Background(), repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(context.Background(), cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.shutdownTracer = shutdown
	}

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.origins.Set(newCfg.CORS.AllowedOrigins)
		logger.Log.Info("CORS allow-list reloaded", zap.Strings("origins", newCfg.CORS.AllowedOrigins))
	})

	return app, nil
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(cfg.Tracing.ServiceName))
	}
	router.Use(monitoring.MetricsMiddleware())
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
}

// requestLogger 使用 zap 记录请求
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// startBackgroundTasks 恢复中断的课程生成并监听配置变更
func (a *App) startBackgroundTasks(ctx context.Context) {
	if a.Config.Generation.ResumeOnStart {
		resumed, err := a.ResumeStalled(ctx)
		if err != nil {
			logger.Log.Error("Failed to resume stalled course generation", zap.Error(err))
		} else if resumed > 0 {
			logger.Log.Info("Resumed stalled course generation", zap.Int("courses", resumed))
		}
	}

	if a.ConfigPath == "" {
		return
	}
	go func() {
		configFile := filepath.Join(a.ConfigPath, "config.yaml")
		err := configwatcher.WatchConfig(ctx, configFile, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.startBackgroundTasks(ctx)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 未完成的生成任务保持 generating，下次启动时恢复
	if err := a.services.executor.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Generation tasks did not stop in time", zap.Error(err))
	}

	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Sync()
	return nil
}

// ResumeStalled 恢复停留在 generating 的课程，返回提交的任务数
func (a *App) ResumeStalled(ctx context.Context) (int, error) {
	return a.services.course.ResumeStalled(ctx)
}

// WaitGeneration 等待后台生成任务全部结束
func (a *App) WaitGeneration(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.services.executor.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 取消后台生成任务
func (a *App) Stop(ctx context.Context) error {
	return a.services.executor.Shutdown(ctx)
}
