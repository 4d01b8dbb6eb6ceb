package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/results"
	"github.com/DoyleJ11/lane-arena/internal/ws"
)

type Deps struct {
	Hub       *hub.Hub
	Results   results.Store
	Logger    *zap.Logger
	AutoStart bool
	WS        ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/map", MapInfo(d.Hub))
	r.Get("/schema", Schema)
	r.Get("/ws", ws.Handler(d.Hub, d.WS))

	r.Route("/games", func(r chi.Router) {
		r.Get("/", ListGames(d.Hub))
		r.Post("/", CreateGame(d.Hub, d.AutoStart))
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/start", StartGame(d.Hub))
			r.Delete("/", DeleteGame(d.Hub))
			r.Get("/view", GameView(d.Hub))
			r.Get("/result", GameResult(d.Results))
		})
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
