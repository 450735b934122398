package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/raushankrgupta/vogue-styler/api"
	"github.com/raushankrgupta/vogue-styler/catalog"
	"github.com/raushankrgupta/vogue-styler/config"
	"github.com/raushankrgupta/vogue-styler/gemini"
	"github.com/raushankrgupta/vogue-styler/inspiration"
	"github.com/raushankrgupta/vogue-styler/session"
	"github.com/raushankrgupta/vogue-styler/store"
	"github.com/raushankrgupta/vogue-styler/utils"
	"github.com/raushankrgupta/vogue-styler/view"
)

const splashDelay = 2 * time.Second

func main() {
	config.LoadConfig()
	ctx := context.Background()

	// Initialize MongoDB
	db, err := store.Connect(ctx, config.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	looks := store.NewLooks(db)
	accounts := store.NewAccounts(db)

	// Session store: Redis when configured, in-process otherwise.
	var kv session.Store
	if config.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(ctx, config.RedisAddr, config.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		kv = redisStore
		log.Println("Connected to Redis!")
	} else {
		log.Println("REDIS_ADDR not set, sessions are kept in process memory")
		kv = session.NewMemoryStore()
	}
	sessions := session.NewManager(kv)

	styleCatalog, err := catalog.Load(config.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load style catalog: %v", err)
	}

	generator := gemini.NewClient(config.GeminiAPIKey, config.GeminiModel)

	// Image offload keeps multi-megabyte data URIs out of Mongo documents.
	var images view.ImageOffloader
	if config.AWSBucketName != "" {
		s3Images, err := utils.NewS3Images(ctx, config.AWSRegion, config.AWSBucketName)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		images = s3Images
		log.Println("S3 image offload enabled")
	}

	apps := view.NewManager(func(deviceID string) *view.Controller {
		return view.NewController(view.Config{
			DeviceID:    deviceID,
			Accounts:    accounts,
			Looks:       looks,
			Sessions:    sessions,
			Generator:   generator,
			Images:      images,
			SplashDelay: splashDelay,
		})
	})

	srv := &api.Server{
		Apps:     apps,
		Catalog:  styleCatalog,
		Sessions: sessions,
		Gemini:   generator,
		Trends:   inspiration.NewFeed(config.TrendSource),
	}

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Device-ID")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("/app/session", corsMiddleware(srv.AttachHandler))
	http.HandleFunc("/app/navigate", corsMiddleware(srv.NavigateHandler))
	http.HandleFunc("/app/register", corsMiddleware(srv.RegisterHandler))
	http.HandleFunc("/app/login", corsMiddleware(srv.LoginHandler))
	http.HandleFunc("/app/logout", corsMiddleware(srv.LogoutHandler))
	http.HandleFunc("/app/catalog", corsMiddleware(srv.CatalogHandler))
	http.HandleFunc("/app/thumbnail", corsMiddleware(srv.ThumbnailHandler))
	http.HandleFunc("/app/studio/select", corsMiddleware(srv.SelectHandler))
	http.HandleFunc("/app/studio/style", corsMiddleware(srv.StyleHandler))
	http.HandleFunc("/app/studio/preview", corsMiddleware(srv.PreviewHandler))
	http.HandleFunc("/app/studio/finalize", corsMiddleware(srv.FinalizeHandler))
	http.HandleFunc("/app/looks/save", corsMiddleware(srv.SaveLookHandler))
	http.HandleFunc("/app/looks", corsMiddleware(srv.ListLooksHandler))
	http.HandleFunc("/app/looks/delete", corsMiddleware(srv.DeleteLookHandler))
	http.HandleFunc("/app/looks/open", corsMiddleware(srv.OpenLookHandler))
	http.HandleFunc("/app/looks/edit", corsMiddleware(srv.EditLookHandler))
	http.HandleFunc("/app/profile/preferences", corsMiddleware(srv.PreferencesHandler))
	http.HandleFunc("/app/profile/avatar", corsMiddleware(srv.AvatarHandler))
	http.HandleFunc("/app/profile/model-image", corsMiddleware(srv.ModelImageHandler))
	http.HandleFunc("/app/inspiration", corsMiddleware(srv.InspirationHandler))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
