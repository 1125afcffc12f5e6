package http

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/echomind/mindink/internal/handler/http/middleware"
	"github.com/echomind/mindink/internal/usecase"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// RouterOptions carries the HTTP settings taken from configuration.
type RouterOptions struct {
	AllowedOrigins     []string
	RateLimitPerSecond float64
	MetricsEnabled     bool
}

type Router struct {
	userHandler        *UserHandler
	postHandler        *PostHandler
	interactionHandler *InteractionHandler
	likeStreamHandler  *LikeStreamHandler
	authHandler        *AuthHandler
	userUsecase        usecasecontract.IUserUseCase
	jwtService         usecase.JWTService
	idVerifier         middleware.IDTokenVerifier
	logger             usecasecontract.IAppLogger
	options            RouterOptions
}

// NewRouter wires the handlers. idVerifier may be nil, in which case only access tokens issued
// by this service are accepted and the Firebase login route is not registered.
func NewRouter(userUsecase usecasecontract.IUserUseCase, postUsecase usecasecontract.IPostUseCase, likeUsecase usecasecontract.ILikeUseCase, jwtService usecase.JWTService, idVerifier middleware.IDTokenVerifier, logger usecasecontract.IAppLogger, options RouterOptions) *Router {
	r := &Router{
		userHandler:        NewUserHandler(userUsecase),
		postHandler:        NewPostHandler(postUsecase),
		interactionHandler: NewInteractionHandler(likeUsecase),
		likeStreamHandler:  NewLikeStreamHandler(likeUsecase, logger, options.AllowedOrigins),
		userUsecase:        userUsecase,
		jwtService:         jwtService,
		idVerifier:         idVerifier,
		logger:             logger,
		options:            options,
	}
	if idVerifier != nil {
		r.authHandler = NewAuthHandler(userUsecase, idVerifier)
	}
	return r
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(middleware.RequestLogger(r.logger))
	router.Use(cors.New(corsConfig(r.options.AllowedOrigins)))
	if r.options.MetricsEnabled {
		router.Use(middleware.Metrics())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	router.GET("/health", func(c *gin.Context) {
		MessageHandler(c, http.StatusOK, "ok")
	})

	// rate limiter configuration
	rate := r.options.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	lmt := tollbooth.NewLimiter(rate, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetMessage("Too many requests, please try again later.")

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimiter(lmt))

	// Public routes (no authentication required)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", r.userHandler.CreateUser)
		auth.POST("/login", r.userHandler.Login)
		if r.authHandler != nil {
			auth.POST("/firebase", r.authHandler.FirebaseLogin)
		}
	}

	v1.GET("/tags", r.postHandler.GetTagsHandler)
	v1.GET("/users/:id", r.userHandler.GetUser)

	// Public post routes
	posts := v1.Group("/posts")
	{
		posts.GET("", r.postHandler.GetFeedHandler)
		posts.GET("/:postID", r.postHandler.GetPostDetailHandler)
		// browsers cannot attach an Authorization header to a websocket handshake,
		// and the counter is public anyway
		posts.GET("/:postID/likes/stream", r.likeStreamHandler.StreamLikeCount)
	}

	// Protected routes (authentication required)
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleWare(r.jwtService, r.userUsecase, r.idVerifier))
	{
		// Current user routes
		protected.GET("/me", r.userHandler.GetCurrentUser)
		protected.PUT("/me", r.userHandler.UpdateUser)

		// Post routes
		protected.POST("/posts", r.postHandler.CreatePostHandler)
		protected.PUT("/posts/:postID", r.postHandler.UpdatePostHandler)
		protected.DELETE("/posts/:postID", r.postHandler.DeletePostHandler)

		// Interaction routes
		protected.POST("/posts/:postID/like", r.interactionHandler.ToggleLikeHandler)
		protected.GET("/posts/:postID/like", r.interactionHandler.GetLikedStateHandler)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
