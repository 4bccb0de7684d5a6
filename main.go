package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bookloom/backend/config"
	"github.com/bookloom/backend/handlers"
	"github.com/bookloom/backend/middleware"
	"github.com/bookloom/backend/service"
	"github.com/bookloom/backend/store"
	"github.com/bookloom/backend/token"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("mongodb indexes:", err)
	}

	var covers *service.CoverService
	if cfg.S3Bucket != "" {
		covers, err = service.NewCoverService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; cover uploads disabled")
	}

	tokens := token.NewService(cfg.JWTSecret)
	authHandler := &handlers.AuthHandler{
		DB:         db,
		Tokens:     tokens,
		Production: cfg.IsProduction(),
	}
	booksHandler := &handlers.BooksHandler{DB: db, Covers: covers}
	borrowHandler := &handlers.BorrowHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{
		Covers:   covers,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"bookloom server is running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Post("/jwt", authHandler.IssueToken)
	r.Post("/logout", authHandler.Logout)
	r.Get("/categories", booksHandler.Categories)
	r.Get("/category/{id}", booksHandler.ByCategory)
	r.Get("/details/{id}", booksHandler.Details)
	r.Get("/popular_book", booksHandler.Popular)
	r.Get("/all_books", booksHandler.All)
	r.Get("/borrowed_books/{id}", borrowHandler.Borrowed)
	r.Put("/return_book", borrowHandler.Return)
	r.Get("/covers/{key}", uploadHandler.Cover)

	// Session-gated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(tokens))
		r.Post("/add_books", booksHandler.Add)
		r.Patch("/update_book", booksHandler.Update)
		r.Delete("/delete_book", booksHandler.Delete)
		r.Put("/borrow_book", borrowHandler.Borrow)
		r.Post("/check_librarian", authHandler.CheckLibrarian)
		r.Post("/upload_cover", uploadHandler.UploadCover)
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
