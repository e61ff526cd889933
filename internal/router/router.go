package routes

import (
	"net/http"

	_ "github.com/Pratham1708/lyftr-ai-backend/internal/docs" // swagger docs
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home    HomeHandler
	Webhook WebhookHandler
	Message MessageHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
	Metrics(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Receive(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health/live", d.Home.Live)
	mux.HandleFunc("GET /health/ready", d.Home.Ready)
	mux.HandleFunc("GET /metrics", d.Home.Metrics)

	mux.HandleFunc("POST /webhook", d.Webhook.Receive)
	mux.HandleFunc("GET /messages", d.Message.List)
	mux.HandleFunc("GET /stats", d.Message.Stats)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
