package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/echomind/mindink/internal/domain/contract"
	handlerHttp "github.com/echomind/mindink/internal/handler/http"
	"github.com/echomind/mindink/internal/handler/http/middleware"
	redisclient "github.com/echomind/mindink/internal/infrastructure/cache"
	"github.com/echomind/mindink/internal/infrastructure/config"
	database "github.com/echomind/mindink/internal/infrastructure/database"
	"github.com/echomind/mindink/internal/infrastructure/firebase"
	"github.com/echomind/mindink/internal/infrastructure/jwt"
	"github.com/echomind/mindink/internal/infrastructure/logger"
	"github.com/echomind/mindink/internal/infrastructure/markdown"
	passwordservice "github.com/echomind/mindink/internal/infrastructure/password_service"
	firestorerepo "github.com/echomind/mindink/internal/infrastructure/repository/firestore"
	"github.com/echomind/mindink/internal/infrastructure/repository/memory"
	"github.com/echomind/mindink/internal/infrastructure/repository/mongodb"
	"github.com/echomind/mindink/internal/infrastructure/store"
	"github.com/echomind/mindink/internal/infrastructure/uuidgen"
	"github.com/echomind/mindink/internal/infrastructure/validator"
	"github.com/echomind/mindink/internal/usecase"
)

// stores groups the persistence adapters of one backend.
type stores struct {
	posts   contract.IPostRepository
	users   contract.IUserRepository
	likes   contract.ILikeStore
	watcher contract.ILikeCountWatcher
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig := config.NewConfig()
	appLogger := logger.NewLogger(appConfig.LogLevel, appConfig.IsProduction())
	if appConfig.JWTSecret == "" {
		appLogger.Fatalf("JWT_SECRET environment variable not set")
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validators
	validator.RegisterCustomValidators()

	ctx := context.Background()

	// Firebase is needed for the firestore backend and enables ID token sign-in when configured.
	var firebaseApp *firebase.App
	useFirestore := appConfig.StoreBackend == config.BackendFirestore
	if useFirestore || appConfig.FirebaseCredentialsPath != "" || appConfig.FirebaseProjectID != "" {
		app, err := firebase.InitFirebase(ctx, appConfig.FirebaseCredentialsPath, appConfig.FirebaseProjectID, useFirestore)
		if err != nil {
			appLogger.Fatalf("Failed to initialize firebase: %v", err)
		}
		defer app.Close()
		firebaseApp = app
	}

	// Dependency Injection: Repositories
	var repos stores
	switch appConfig.StoreBackend {
	case config.BackendMongoDB:
		if appConfig.MongoURI == "" {
			appLogger.Fatalf("MONGODB_URI environment variable not set")
		}
		mongoClient, err := database.NewMongoDBClient(ctx, appConfig.MongoURI)
		if err != nil {
			appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect()

		db := mongoClient.Client.Database(appConfig.MongoDBName)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			appLogger.Fatalf("Failed to create MongoDB indexes: %v", err)
		}
		repos = stores{
			posts:   mongodb.NewPostRepository(mongoClient.Client, db),
			users:   mongodb.NewMongoUserRepository(db),
			likes:   mongodb.NewLikeStore(mongoClient.Client, db),
			watcher: mongodb.NewLikeCountWatcher(mongoClient.Client, db),
		}
	case config.BackendFirestore:
		fs := firebaseApp.Firestore
		repos = stores{
			posts:   firestorerepo.NewPostRepository(fs),
			users:   firestorerepo.NewUserRepository(fs),
			likes:   firestorerepo.NewLikeStore(fs),
			watcher: firestorerepo.NewLikeCountWatcher(fs),
		}
	case config.BackendMemory:
		appLogger.Warnf("Using the in-memory store; data is lost on restart")
		mem := memory.NewStore()
		repos = stores{posts: mem, users: mem, likes: mem, watcher: mem}
	default:
		appLogger.Fatalf("Unknown STORE_BACKEND %q", appConfig.StoreBackend)
	}

	// Dependency Injection: Services
	hasher := passwordservice.NewHasher()
	jwtManager := jwt.NewJWTManager(appConfig.JWTSecret, appConfig.GetAccessTokenExpiry())
	jwtService := jwt.NewJWTService(jwtManager)
	appValidator := validator.NewValidator()
	uuidGenerator := uuidgen.NewGenerator()
	renderer := markdown.NewRenderer()

	// Dependency Injection: Usecases
	userUsecase := usecase.NewUserUsecase(repos.users, hasher, jwtService, appLogger, appValidator, uuidGenerator)
	postUsecase := usecase.NewPostUsecase(repos.posts, repos.users, renderer, appValidator, uuidGenerator, appLogger)
	likeUsecase := usecase.NewLikeUsecase(repos.likes, repos.watcher, appLogger, appConfig)

	// Optional Dependency Injection: Redis cache
	if appConfig.RedisURL != "" {
		rdb, err := redisclient.NewRedisFromURL(ctx, appConfig.RedisURL)
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisclient.Close(rdb)
		postCache := store.NewPostCacheStore(rdb, appConfig.GetFeedCacheTTL())
		postUsecase.SetCache(postCache)
		likeUsecase.SetPostCache(postCache)
	}

	var idVerifier middleware.IDTokenVerifier
	if firebaseApp != nil {
		idVerifier = firebaseApp.AuthClient
	}

	// Setup API routes
	router := gin.New()
	router.Use(gin.Recovery())
	appRouter := handlerHttp.NewRouter(userUsecase, postUsecase, likeUsecase, jwtService, idVerifier, appLogger, handlerHttp.RouterOptions{
		AllowedOrigins:     appConfig.CORSAllowedOrigins,
		RateLimitPerSecond: appConfig.RateLimitPerSecond,
		MetricsEnabled:     appConfig.MetricsEnabled,
	})
	appRouter.SetupRoutes(router)

	// Start the server
	serverLogger := appLogger.WithField("backend", appConfig.StoreBackend)
	serverLogger.Infof("Server running on port %s", appConfig.Port)
	if err := router.Run(":" + appConfig.Port); err != nil {
		serverLogger.Fatalf("Failed to start server: %v", err)
	}
}
