package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lnmedico/lnmedico-backend/api/controllers"
	"github.com/lnmedico/lnmedico-backend/api/middleware"
	"github.com/lnmedico/lnmedico-backend/internal/dashboard"
	"github.com/lnmedico/lnmedico-backend/internal/inventory"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	"github.com/lnmedico/lnmedico-backend/internal/prescriptions"
	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	gatherer prometheus.Gatherer,
	inventoryService inventory.Service,
	patientService patients.Service,
	prescriptionService prescriptions.Service,
	dashboardService dashboard.Service,
	renderer controllers.DocumentRenderer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", controllers.Dashboard(dashboardService, logg))

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", controllers.ListMedicines(inventoryService, logg))
			r.Post("/", controllers.CreateMedicine(inventoryService, logg))
			r.Get("/low-stock", controllers.LowStockMedicines(inventoryService, logg))
			r.Get("/{medicineId}", controllers.GetMedicine(inventoryService, logg))
			r.Patch("/{medicineId}", controllers.UpdateMedicine(inventoryService, logg))
			r.Delete("/{medicineId}", controllers.DeleteMedicine(inventoryService, logg))
		})

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", controllers.ListPatients(patientService, logg))
			r.Post("/", controllers.CreatePatient(patientService, logg))
			r.Route("/{patientId}", func(r chi.Router) {
				r.Get("/", controllers.GetPatient(patientService, logg))
				r.Patch("/", controllers.UpdatePatient(patientService, logg))
				r.Delete("/", controllers.DeletePatient(patientService, logg))
				r.Get("/history.pdf", controllers.PatientHistoryPDF(patientService, renderer, logg))
				r.Get("/prescriptions", controllers.PatientHistory(patientService, logg))
				r.Post("/prescriptions", controllers.CreatePrescription(prescriptionService, logg))
				r.Get("/prescriptions/{prescriptionId}/pdf", controllers.PrescriptionPDF(prescriptionService, patientService, renderer, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/inventory.pdf", controllers.InventoryPDF(inventoryService, renderer, logg))
			r.Get("/patients.pdf", controllers.PatientsPDF(patientService, renderer, logg))
		})
	})

	return r
}
