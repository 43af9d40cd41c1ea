package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"teamdisk/internal/config"
	"teamdisk/internal/handlers"
	"teamdisk/internal/middlewares"
	"teamdisk/internal/pkg/cache"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/activity"
	"teamdisk/internal/services/admin"
	"teamdisk/internal/services/explorer"
	"teamdisk/internal/services/share"
)

// RouterConfig 包含初始化路由所需的所有依赖
type RouterConfig struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
}

func NewRouterConfig(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *RouterConfig {
	return &RouterConfig{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
	}
}

func InitRouter(routerCfg *RouterConfig) *gin.Engine {
	router := gin.Default() // 使用默认的 Gin 引擎，包含 Logger 和 Recovery 中间件
	router.Use(middlewares.RequestIDMiddleware())

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 组装仓库与服务
	userRepo := repositories.NewUserRepository(routerCfg.db)
	fileRepo := repositories.NewFileRepository(routerCfg.db)
	folderRepo := repositories.NewFolderRepository(routerCfg.db)
	shareRepo := repositories.NewShareRepository(routerCfg.db)
	activityRepo := repositories.NewActivityRepository(routerCfg.db)

	pathResolver := explorer.NewPathResolver(folderRepo, routerCfg.cfg)
	quotaTracker := explorer.NewQuotaTracker(userRepo, fileRepo, routerCfg.cfg)
	accessChecker := explorer.NewAccessChecker(shareRepo)
	txManager := explorer.NewTransactionManager(routerCfg.db)
	storageService := explorer.NewStorageService(fileRepo, folderRepo, shareRepo, pathResolver, quotaTracker, accessChecker, txManager, routerCfg.cfg)

	shareService := share.NewShareService(shareRepo, fileRepo, folderRepo, userRepo, storageService)
	activityService := activity.NewActivityService(activityRepo)
	authService := admin.NewAuthService(userRepo, pathResolver, routerCfg.cfg)

	var cacheService cache.Cache
	if routerCfg.redisClient != nil {
		cacheService = cache.NewRedisCache(routerCfg.redisClient)
	}
	userService := admin.NewUserService(userRepo, quotaTracker, cacheService, routerCfg.cfg)

	// 外部分享链接, 无需登录
	router.GET("/s/:token", handlers.DownloadSharedFile(shareService))

	v1 := router.Group("/api/v1")
	{
		// 认证相关路由 (无需认证)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handlers.Register(authService))
			authGroup.POST("/login", handlers.Login(authService))
		}

		// 需要认证的路由组
		authenticated := v1.Group("/")
		authenticated.Use(middlewares.AuthMiddleware(routerCfg.cfg))

		// 当前用户
		userGroup := authenticated.Group("/users")
		{
			userGroup.GET("/me", handlers.Me(authService, quotaTracker))
			userGroup.PUT("/me/password", handlers.ChangePassword(authService))
		}

		// 文件相关路由
		fileGroup := authenticated.Group("/files")
		{
			fileGroup.GET("/", handlers.ListFolderContents(storageService))
			fileGroup.POST("/upload", handlers.UploadFiles(storageService, quotaTracker, activityService))
			fileGroup.GET("/download/:id", handlers.DownloadFile(storageService, activityService))
			fileGroup.DELETE("/:id", handlers.DeleteFile(storageService, activityService))
		}

		// 文件夹相关路由
		folderGroup := authenticated.Group("/folders")
		{
			folderGroup.POST("/", handlers.CreateFolder(storageService))
			folderGroup.DELETE("/:id", handlers.DeleteFolder(storageService))
		}

		// 分享相关路由
		shareGroup := authenticated.Group("/shares")
		{
			shareGroup.POST("/files/:id", handlers.ShareFile(shareService, activityService))
			shareGroup.POST("/folders/:id", handlers.ShareFolder(shareService, activityService))
			shareGroup.GET("/my", handlers.ListShares(shareService))
			shareGroup.DELETE("/files/:id", handlers.RevokeFileShare(shareService))
			shareGroup.DELETE("/folders/:id", handlers.RevokeFolderShare(shareService))
		}

		// 操作流水
		authenticated.GET("/activities", handlers.ListMyActivities(activityService))

		// 管理端路由
		adminGroup := authenticated.Group("/admin")
		adminGroup.Use(middlewares.AdminMiddleware())
		{
			adminGroup.GET("/users", handlers.ListUsers(userService))
			adminGroup.PUT("/users/:id/quota", handlers.SetUserQuota(userService))
			adminGroup.PUT("/users/:id/password", handlers.ResetUserPassword(authService))
			adminGroup.GET("/users/:id/activities", handlers.GetUserActivities(activityService))
			adminGroup.GET("/stats", handlers.GetStorageStats(userService))
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, xerr.NotFoundCode, "Route not found")
	})

	return router
}
