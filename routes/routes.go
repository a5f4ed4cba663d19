package routes

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	"go.uber.org/zap"

	"eco-swift-backend/graph"
	"eco-swift-backend/middleware"
)

// Register mounts the GraphQL endpoint, the websocket subscription endpoint
// and the health check on the router. /graphql serves both: requests with a
// websocket upgrade header go to the subscription handler, everything else
// to the HTTP executor.
func Register(router *mux.Router, schema graphql.Schema, ws *graph.WSHandler, jwtSecret []byte, logger *zap.Logger) {
	httpHandler := gqlhandler.New(&gqlhandler.Config{
		Schema:     &schema,
		Pretty:     true,
		Playground: true,
	})

	router.Use(middleware.RequestID)
	router.Use(middleware.AuthMiddleware(jwtSecret))

	router.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if websocketUpgrade(r) {
			ws.ServeHTTP(w, r)
			return
		}
		httpHandler.ServeHTTP(w, r)
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			logger.Warn("writing health response failed", zap.Error(err))
		}
	}).Methods(http.MethodGet)
}

func websocketUpgrade(r *http.Request) bool {
	for _, value := range r.Header.Values("Upgrade") {
		if value == "websocket" {
			return true
		}
	}
	return false
}
