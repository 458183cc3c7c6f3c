package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chat-app/modules/api"
	"github.com/example/chat-app/modules/auth"
	"github.com/example/chat-app/modules/files"
	"github.com/example/chat-app/modules/message"
	"github.com/example/chat-app/modules/presence"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Realtime Chat ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	filesModule := files.NewModule()
	authModule := auth.NewModule()
	messageModule := message.NewModule()
	presenceModule := presence.NewModule()
	apiModule := api.NewModule()

	// Inject the presence hub into the API module. This is done manually
	// because the hub is not exposed via ServiceContainer.
	apiModule.SetHub(presenceModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies.
	app.Register(filesModule)    // Blob store (JetStream object store)
	app.Register(authModule)     // Identity/session layer (depends on files)
	app.Register(messageModule)  // Delivery service (depends on auth, files)
	app.Register(presenceModule) // WebSocket hub + MessageCreated consumer
	app.Register(apiModule)      // HTTP/WebSocket surface

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  POST /api/auth/signup          - Create an account")
	log.Println("  POST /api/auth/login           - Log in")
	log.Println("  POST /api/auth/logout          - Log out")
	log.Println("  GET  /api/auth/check           - Current session profile")
	log.Println("  PUT  /api/auth/update-profile  - Upload a profile image")
	log.Println("  GET  /api/messages/users       - Roster (everyone but you)")
	log.Println("  GET  /api/messages/:id         - Conversation history")
	log.Println("  POST /api/messages/send/:id    - Send a message")
	log.Println("  GET  /api/files/:name          - Stored image blobs")
	log.Println("  GET  /api/health               - Health check")
	log.Println("")
	log.Printf("WebSocket Endpoint: ws://localhost:%s/ws?userId=<id>", port)
	log.Println("  Server events: getOnlineUsers (all), newMessage (recipient only)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
