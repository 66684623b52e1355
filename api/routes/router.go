package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk-backend/api/controllers"
	"github.com/fleetdesk/fleetdesk-backend/api/middleware"
	agentssvc "github.com/fleetdesk/fleetdesk-backend/internal/agents"
	bookingsvc "github.com/fleetdesk/fleetdesk-backend/internal/bookings"
	catalogsvc "github.com/fleetdesk/fleetdesk-backend/internal/catalog"
	companysvc "github.com/fleetdesk/fleetdesk-backend/internal/companies"
	locationsvc "github.com/fleetdesk/fleetdesk-backend/internal/locations"
	mediasvc "github.com/fleetdesk/fleetdesk-backend/internal/media"
	paymentsvc "github.com/fleetdesk/fleetdesk-backend/internal/payments"
	addonsvc "github.com/fleetdesk/fleetdesk-backend/internal/services"
	socialsvc "github.com/fleetdesk/fleetdesk-backend/internal/social"
	staticsvc "github.com/fleetdesk/fleetdesk-backend/internal/staticfiles"
	userssvc "github.com/fleetdesk/fleetdesk-backend/internal/users"
	vehiclesvc "github.com/fleetdesk/fleetdesk-backend/internal/vehicles"
	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/imagesidecar"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/metrics"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Companies companysvc.Service
	Locations locationsvc.Service
	Vehicles  vehiclesvc.Service
	Catalog   catalogsvc.Service
	Bookings  bookingsvc.Service
	Addons    addonsvc.Service
	Payments  paymentsvc.Service
	Media     mediasvc.Service
	Static    staticsvc.Service
	Social    socialsvc.Service
	Users     userssvc.Service
	Agents    agentssvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
	sidecar *imagesidecar.Client,
	pingers ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	// Unauthenticated surface: tenant branding config by subdomain and the
	// blob proxy the storefronts embed directly.
	r.Get("/api/public/config/{subdomain}", controllers.CompanyConfigBySubdomain(svcs.Companies, logg))
	r.Get("/api/static/{container}/*", controllers.ServeStaticFile(svcs.Static, logg))

	r.Post("/api/v1/users/login", controllers.StaffLogin(svcs.Users, logg))
	r.Post("/api/v1/agents/login", controllers.AgentLogin(svcs.Agents, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Get("/{userID}", controllers.GetUser(svcs.Users, logg))
			r.Patch("/{userID}", controllers.UpdateUser(svcs.Users, logg))
			r.Delete("/{userID}", controllers.DeleteUser(svcs.Users, logg))
		})

		r.Route("/agents", func(r chi.Router) {
			r.Use(middleware.RequireAgent(logg))
			r.Get("/", controllers.ListAgents(svcs.Agents, logg))
			r.Post("/", controllers.CreateAgent(svcs.Agents, logg))
			r.Get("/{agentID}", controllers.GetAgent(svcs.Agents, logg))
			r.Patch("/{agentID}", controllers.UpdateAgent(svcs.Agents, logg))
			r.Delete("/{agentID}", controllers.DeleteAgent(svcs.Agents, logg))
		})

		r.Route("/models", func(r chi.Router) {
			r.Get("/grouped", controllers.ListGroupedModels(svcs.Catalog, logg))
			r.Put("/rates/bulk", controllers.BulkUpdateModelRates(svcs.Catalog, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaffAdmin(logg))
				r.Post("/", controllers.CreateCatalogModel(svcs.Catalog, logg))
				r.Patch("/{modelID}", controllers.UpdateCatalogModel(svcs.Catalog, logg))
				r.Delete("/{modelID}", controllers.DeleteCatalogModel(svcs.Catalog, logg))
			})
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Catalog, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaffAdmin(logg))
				r.Post("/", controllers.CreateCategory(svcs.Catalog, logg))
				r.Patch("/{categoryID}", controllers.UpdateCategory(svcs.Catalog, logg))
				r.Delete("/{categoryID}", controllers.DeleteCategory(svcs.Catalog, logg))
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListAdditionalServices(svcs.Addons, logg))
			r.Get("/{serviceID}", controllers.GetAdditionalService(svcs.Addons, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaffAdmin(logg))
				r.Post("/", controllers.CreateAdditionalService(svcs.Addons, logg))
				r.Patch("/{serviceID}", controllers.UpdateAdditionalService(svcs.Addons, logg))
				r.Delete("/{serviceID}", controllers.DeleteAdditionalService(svcs.Addons, logg))
			})
		})

		r.Route("/heic", func(r chi.Router) {
			r.Post("/convert", controllers.ConvertHEIC(sidecar, logg))
			r.Get("/capabilities", controllers.HEICCapabilities(sidecar, logg))
			r.Get("/stats", controllers.HEICStats(sidecar, logg))
		})

		r.Route("/companies", func(r chi.Router) {
			r.With(middleware.RequireStaff(logg)).Get("/", controllers.ListCompanies(svcs.Companies, logg))
			r.With(middleware.RequireStaffAdmin(logg)).Post("/", controllers.CreateCompany(svcs.Companies, logg))

			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", controllers.GetCompany(svcs.Companies, logg))
				r.Patch("/", controllers.UpdateCompany(svcs.Companies, logg))
				r.With(middleware.RequireStaffAdmin(logg)).Delete("/", controllers.DeactivateCompany(svcs.Companies, logg))
				r.With(middleware.RequireStaffAdmin(logg)).Post("/reactivate", controllers.ReactivateCompany(svcs.Companies, logg))
				r.Get("/config", controllers.CompanyConfig(svcs.Companies, logg))
				r.Post("/config/invalidate", controllers.InvalidateCompanyConfig(svcs.Companies, logg))

				r.Route("/locations", func(r chi.Router) {
					r.Get("/", controllers.ListLocations(svcs.Locations, logg))
					r.Post("/", controllers.CreateLocation(svcs.Locations, logg))
					r.Get("/{locationID}", controllers.GetLocation(svcs.Locations, logg))
					r.Patch("/{locationID}", controllers.UpdateLocation(svcs.Locations, logg))
					r.Delete("/{locationID}", controllers.DeleteLocation(svcs.Locations, logg))
				})

				r.Route("/vehicles", func(r chi.Router) {
					r.Get("/", controllers.ListVehicles(svcs.Vehicles, logg))
					r.Post("/", controllers.CreateVehicle(svcs.Vehicles, logg))
					r.Get("/{vehicleID}", controllers.GetVehicle(svcs.Vehicles, logg))
					r.Patch("/{vehicleID}", controllers.UpdateVehicle(svcs.Vehicles, logg))
					r.Delete("/{vehicleID}", controllers.DeleteVehicle(svcs.Vehicles, logg))
					r.Post("/{vehicleID}/image", controllers.UploadVehicleImage(svcs.Media, logg))
					r.Post("/{vehicleID}/social/publish", controllers.PublishVehiclePost(svcs.Social, logg))
				})

				r.Route("/bookings", func(r chi.Router) {
					r.Get("/", controllers.ListBookings(svcs.Bookings, logg))
					r.Post("/", controllers.CreateBooking(svcs.Bookings, logg))
					r.Get("/{bookingID}", controllers.GetBooking(svcs.Bookings, logg))
					r.Patch("/{bookingID}", controllers.UpdateBooking(svcs.Bookings, logg))
					r.Post("/{bookingID}/transition", controllers.TransitionBooking(svcs.Bookings, logg))
					r.Delete("/{bookingID}", controllers.DeleteBooking(svcs.Bookings, logg))

					r.Get("/{bookingID}/services", controllers.ListBookingServices(svcs.Addons, logg))
					r.Post("/{bookingID}/services", controllers.AttachServiceToBooking(svcs.Addons, logg))
					r.Patch("/{bookingID}/services/{bookingServiceID}", controllers.UpdateBookingServiceQuantity(svcs.Addons, logg))
					r.Delete("/{bookingID}/services/{bookingServiceID}", controllers.DetachServiceFromBooking(svcs.Addons, logg))

					r.Post("/{bookingID}/transfers", controllers.TransferBookingFunds(svcs.Payments, logg))
					r.Get("/{bookingID}/transfers", controllers.BookingTransferStatus(svcs.Payments, logg))
					r.Post("/{bookingID}/deposit", controllers.AuthorizeBookingDeposit(svcs.Payments, logg))
					r.Post("/{bookingID}/terminal/intent", controllers.CreateTerminalIntent(svcs.Payments, logg))
				})

				r.Post("/terminal/connection-token", controllers.TerminalConnectionToken(svcs.Payments, logg))

				r.Route("/services", func(r chi.Router) {
					r.Get("/", controllers.ListCompanyServices(svcs.Addons, logg))
					r.Post("/", controllers.OptIntoService(svcs.Addons, logg))
					r.Patch("/{optInID}", controllers.ToggleCompanyService(svcs.Addons, logg))
					r.Delete("/{optInID}", controllers.OptOutOfService(svcs.Addons, logg))
				})

				r.Post("/assets", controllers.UploadCompanyAsset(svcs.Media, logg))

				r.Route("/social", func(r chi.Router) {
					r.Route("/posts", func(r chi.Router) {
						r.Get("/", controllers.ListScheduledPosts(svcs.Social, logg))
						r.Post("/", controllers.CreateScheduledPost(svcs.Social, logg))
						r.Get("/{postID}", controllers.GetScheduledPost(svcs.Social, logg))
						r.Patch("/{postID}", controllers.UpdateScheduledPost(svcs.Social, logg))
						r.Post("/{postID}/cancel", controllers.CancelScheduledPost(svcs.Social, logg))
						r.Post("/{postID}/publish", controllers.PublishScheduledPost(svcs.Social, logg))
						r.Delete("/{postID}", controllers.DeleteScheduledPost(svcs.Social, logg))
					})
					r.Route("/templates", func(r chi.Router) {
						r.Get("/", controllers.ListPostTemplates(svcs.Social, logg))
						r.Post("/", controllers.CreatePostTemplate(svcs.Social, logg))
						r.Patch("/{templateID}", controllers.UpdatePostTemplate(svcs.Social, logg))
						r.Delete("/{templateID}", controllers.DeletePostTemplate(svcs.Social, logg))
					})
					r.Get("/auto-post", controllers.GetAutoPostSettings(svcs.Social, logg))
					r.Put("/auto-post", controllers.PutAutoPostSettings(svcs.Social, logg))
					r.Route("/analytics", func(r chi.Router) {
						r.Get("/", controllers.ListPostAnalytics(svcs.Social, logg))
						r.Post("/{postID}/refresh", controllers.RefreshPostAnalytics(svcs.Social, logg))
					})
				})
			})
		})
	})

	return r
}
