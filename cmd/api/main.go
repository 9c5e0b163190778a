package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"tukarlapak/internal/adapter/api"
	"tukarlapak/internal/adapter/api/handler"
	apimiddleware "tukarlapak/internal/adapter/api/middleware"
	"tukarlapak/internal/adapter/api/router"
	"tukarlapak/internal/adapter/repository"
	"tukarlapak/internal/infrastructure/firebase"
	"tukarlapak/internal/infrastructure/ratelimit"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/internal/infrastructure/storage"
	"tukarlapak/internal/stream"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountPath := ""
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	savedReplyRepo := repository.NewFirestoreSavedReplyRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	favoriteRepo := repository.NewFirestoreFavoriteRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	barterRepo := repository.NewFirestoreBarterRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	callRepo := repository.NewFirestoreCallRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	stream.DefaultTypingQuiet = time.Duration(cfg.TypingQuietSecs) * time.Second

	hub := realtime.NewHub()
	hub.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, hub)
	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, favoriteRepo, rateLimiter)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, savedReplyRepo, userRepo, listingRepo, notificationUseCase, hub, rateLimiter)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, listingRepo, notificationUseCase, hub)
	barterUseCase := usecase.NewBarterUseCase(barterRepo, listingRepo, notificationUseCase, hub)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, orderRepo, barterRepo, userRepo, notificationUseCase)
	callUseCase := usecase.NewCallUseCase(callRepo, userRepo, hub)

	handler.Setup(
		authUseCase,
		userUseCase,
		listingUseCase,
		chatUseCase,
		orderUseCase,
		barterUseCase,
		notificationUseCase,
		reviewUseCase,
		callUseCase,
	)
	handler.SetupFileHandler(storageClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	ipLimiter := apimiddleware.NewIPRateLimiter(120, time.Minute)
	e.Use(ipLimiter.Middleware())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	wsHandler := handler.NewWebSocketHandler(hub, chatUseCase, authMiddleware)

	router.Setup(e, authMiddleware)
	router.SetupFileRouter(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
