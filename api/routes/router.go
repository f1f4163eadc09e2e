package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hospicare/hospicare-backend/api/controllers"
	"github.com/hospicare/hospicare-backend/api/middleware"
	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/internal/courses"
	"github.com/hospicare/hospicare-backend/internal/doses"
	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/config"
	"github.com/hospicare/hospicare-backend/pkg/db"
	"github.com/hospicare/hospicare-backend/pkg/logger"
	"github.com/hospicare/hospicare-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	inventoryService inventory.Service,
	coursesService courses.Service,
	dosesService doses.Service,
	allocationsService allocations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// The typed nil checks keep optional dependencies out of the interface
	// values, so handlers can treat nil as "not wired".
	var redisP redis.Pinger
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Idempotency is attached per route instead of on the group so the rule
	// table sees the fully resolved chi route pattern.
	idem := middleware.Idempotency(idemStore, logg, cfg.Idempotency)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ActorContext(logg))

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(inventoryService, logg))
			r.With(idem).Post("/", controllers.InventoryCreate(inventoryService, logg))
			r.Post("/reconcile", controllers.InventoryReconcile(inventoryService, logg))
			r.Get("/{itemId}", controllers.InventoryDetail(inventoryService, logg))
			r.Get("/{itemId}/events", controllers.InventoryEvents(inventoryService, logg))
		})

		r.Route("/v1/courses", func(r chi.Router) {
			r.Get("/", controllers.CourseList(coursesService, logg))
			r.With(idem).Post("/", controllers.CourseCreate(coursesService, logg))
			r.Route("/{courseId}", func(r chi.Router) {
				r.Get("/", controllers.CourseDetail(coursesService, logg))
				r.With(idem).Delete("/", controllers.CourseDelete(coursesService, logg))
				r.With(idem).Post("/transition", controllers.CourseTransition(coursesService, logg))
				r.Get("/events", controllers.CourseEvents(allocationsService, logg))
				r.Get("/totals", controllers.CourseTotals(allocationsService, logg))
				r.Route("/doses", func(r chi.Router) {
					r.Get("/", controllers.DoseList(dosesService, logg))
					r.With(idem).Post("/{doseNumber}/record", controllers.DoseRecord(dosesService, logg))
				})
			})
		})
	})

	return r
}
