// Package router wires the HTTP surface: middleware, CORS and every route
// with the roles allowed to call it.
package router

import (
	"net/http"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/database"
	"fleet-backend/internal/handlers"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Store is everything the handlers read and write. *database.Store
// satisfies it.
type Store interface {
	handlers.StaffStore
	handlers.VehicleStore
	handlers.ClientStore
	handlers.OrderStore
	handlers.EquipmentStore
	handlers.RunStore
	handlers.InvoiceStore
	handlers.FuelLogStore
	handlers.ServiceLogStore
	handlers.TransferStore
	handlers.DeviceTokenStore
}

var _ Store = (*database.Store)(nil)

type Deps struct {
	Store          Store
	Authenticator  handlers.Authenticator
	Codec          *auth.SessionCodec
	Resolver       handlers.VehicleResolver
	Hub            *websocket.Hub
	Notifier       handlers.RunNotifier // nil disables push
	Documents      handlers.DocumentStorage
	AllowedOrigins []string
	LoginLimiter   *middleware.LoginLimiter

	// Rewrite RemoteAddr from X-Forwarded-For / X-Real-IP. Only set behind a
	// proxy that overwrites those headers; the login limiter keys on RemoteAddr.
	TrustProxyHeaders bool
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if d.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Credentialed CORS: the dashboard sends the session cookie cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/ws", websocket.HandleWebSocket(d.Hub, d.Codec, d.AllowedOrigins))

	admin := middleware.RequireRole(auth.RoleAdmin)
	driver := middleware.RequireRole(auth.RoleDriver)

	runs := &handlers.RunHandler{Store: d.Store, Hub: d.Hub, Notifier: d.Notifier}
	invoices := &handlers.InvoiceHandler{Store: d.Store, Documents: d.Documents}

	r.Route("/api", func(r chi.Router) {
		// Authentication routes (no auth required)
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Middleware)
			}
			r.Post("/auth/login", handlers.Login(d.Authenticator, d.Codec))
		})
		r.Post("/auth/logout", handlers.Logout(d.Codec))

		// Protected routes (require a session)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Codec))

			r.Get("/auth/session", handlers.GetSession())

			// Readable by both roles; handlers scope drivers to their own data
			r.Get("/vehicles", handlers.ListVehicles(d.Store, d.Resolver))
			r.Get("/vehicles/{id}", handlers.GetVehicle(d.Store, d.Resolver))
			r.Get("/clients/{id}", handlers.GetClient(d.Store))
			r.Get("/orders/{id}", handlers.GetOrder(d.Store))
			r.Get("/equipment/{id}", handlers.GetEquipment(d.Store))
			r.Get("/runs", runs.List)
			r.Get("/runs/{id}", runs.Get)
			r.Put("/runs/{id}", runs.Update)
			r.Get("/invoices", invoices.List)
			r.Get("/invoices/{id}", invoices.Get)
			r.Get("/invoices/{id}/document", invoices.Document)
			r.Get("/fuel", handlers.ListFuelLogs(d.Store, d.Resolver))
			r.Get("/fuel/{id}", handlers.GetFuelLog(d.Store, d.Resolver))
			r.Get("/service-logs", handlers.ListServiceLogs(d.Store, d.Resolver))
			r.Get("/service-logs/{id}", handlers.GetServiceLog(d.Store, d.Resolver))

			// Driver-only routes
			r.Group(func(r chi.Router) {
				r.Use(driver)
				r.Get("/my-vehicle", handlers.MyVehicle(d.Store, d.Resolver))
				r.Post("/driver/device-token", handlers.RegisterDeviceToken(d.Store))
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Get("/staff", handlers.ListStaff(d.Store))
				r.Post("/staff", handlers.CreateStaff(d.Store))
				r.Get("/staff/{id}", handlers.GetStaff(d.Store))
				r.Put("/staff/{id}", handlers.UpdateStaff(d.Store))
				r.Delete("/staff/{id}", handlers.DeactivateStaff(d.Store))
				r.Post("/staff/{id}/restore", handlers.RestoreStaff(d.Store))

				r.Post("/vehicles", handlers.CreateVehicle(d.Store))
				r.Put("/vehicles/{id}", handlers.UpdateVehicle(d.Store))
				r.Delete("/vehicles/{id}", handlers.Deactivate(d.Store, database.EntityVehicle))
				r.Post("/vehicles/{id}/restore", handlers.Restore(d.Store, database.EntityVehicle))

				r.Get("/clients", handlers.ListClients(d.Store))
				r.Post("/clients", handlers.CreateClient(d.Store))
				r.Put("/clients/{id}", handlers.UpdateClient(d.Store))
				r.Delete("/clients/{id}", handlers.Deactivate(d.Store, database.EntityClient))
				r.Post("/clients/{id}/restore", handlers.Restore(d.Store, database.EntityClient))

				r.Get("/orders", handlers.ListOrders(d.Store))
				r.Post("/orders", handlers.CreateOrder(d.Store))
				r.Put("/orders/{id}", handlers.UpdateOrder(d.Store))
				r.Delete("/orders/{id}", handlers.Deactivate(d.Store, database.EntityOrder))
				r.Post("/orders/{id}/restore", handlers.Restore(d.Store, database.EntityOrder))

				r.Get("/equipment", handlers.ListEquipment(d.Store))
				r.Post("/equipment", handlers.CreateEquipment(d.Store))
				r.Put("/equipment/{id}", handlers.UpdateEquipment(d.Store))
				r.Delete("/equipment/{id}", handlers.Deactivate(d.Store, database.EntityEquipment))
				r.Post("/equipment/{id}/restore", handlers.Restore(d.Store, database.EntityEquipment))

				r.Post("/runs", runs.Create)
				r.Delete("/runs/{id}", handlers.Deactivate(d.Store, database.EntityRun))
				r.Post("/runs/{id}/restore", handlers.Restore(d.Store, database.EntityRun))

				r.Post("/invoices", invoices.Create)
				r.Put("/invoices/{id}", invoices.Update)
				r.Delete("/invoices/{id}", invoices.Delete)

				r.Post("/fuel", handlers.CreateFuelLog(d.Store))
				r.Put("/fuel/{id}", handlers.UpdateFuelLog(d.Store))
				r.Delete("/fuel/{id}", handlers.Deactivate(d.Store, database.EntityFuelLog))
				r.Post("/fuel/{id}/restore", handlers.Restore(d.Store, database.EntityFuelLog))

				r.Post("/service-logs", handlers.CreateServiceLog(d.Store))
				r.Put("/service-logs/{id}", handlers.UpdateServiceLog(d.Store))
				r.Delete("/service-logs/{id}", handlers.Deactivate(d.Store, database.EntityServiceLog))
				r.Post("/service-logs/{id}/restore", handlers.Restore(d.Store, database.EntityServiceLog))

				r.Get("/export/{dataset}", handlers.Export(d.Store))
				r.Post("/import/{dataset}", handlers.Import(d.Store))
			})
		})
	})

	return r
}
