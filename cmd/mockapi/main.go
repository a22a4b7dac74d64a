package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/database"
	panelhandler "github.com/ragpanel/ragpanel/backend/go-services/internal/panel/handler"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
)

// mockapi runs just the /mock admin surface: seeded memory store by default,
// Mongo-backed when MONGODB_URI is set. Handy for frontend development
// without Redis, MinIO or the RAG backend.
func main() {
	port := os.Getenv("MOCK_API_PORT")
	if port == "" {
		port = "5011"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var store repository.Store
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using seeded memory store", err)
		} else {
			store = repository.NewMongoStore(client.Database(os.Getenv("MONGODB_DATABASE")))
		}
	}
	if store == nil {
		store = repository.NewSeededMemoryStore()
	}

	panelhandler.New(store).Register(r)

	log.Printf("mock admin API listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
