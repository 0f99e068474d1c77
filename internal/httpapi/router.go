package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"gateway/internal/api"
	"gateway/internal/contents"
	"gateway/internal/customer"
	"gateway/internal/device"
	"gateway/internal/downstream"
	"gateway/internal/ledger"
	"gateway/internal/maintenance"
	"gateway/internal/merchant"
	"gateway/internal/order"
	"gateway/internal/pipeline"
	"gateway/internal/product"
	"gateway/internal/token"
	"gateway/internal/user"
	"gateway/internal/users"
	"gateway/internal/voucher"
	"gateway/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	Log *slog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(api.RequestLogger(deps.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "x-functions-key"},
		MaxAge:         600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	svcs := deps.Cfg.Services
	usersClient := downstream.NewClient("users", svcs.Users)
	merchantClient := downstream.NewClient("merchant", svcs.Merchant)
	deviceClient := downstream.NewClient("device", svcs.Device)
	productClient := downstream.NewClient("product", svcs.Product)
	orderClient := downstream.NewClient("order", svcs.Order)
	voucherClient := downstream.NewClient("voucher", svcs.Voucher)
	ledgerClient := downstream.NewClient("ledger", svcs.Ledger)
	customerClient := downstream.NewClient("customer", svcs.Customer)
	contentsClient := downstream.NewClient("contents", svcs.Contents)
	maintenanceClient := downstream.NewClient("maintenance", svcs.Maintenance)

	loader := &users.Loader{Client: usersClient}
	engine := &pipeline.Engine{Loader: loader, Log: deps.Log}
	decoder := token.Decoder{Secret: deps.Cfg.TokenSecret, Audience: deps.Cfg.TokenAudience}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.ServiceKeyAuth(deps.Cfg.InboundServiceKey))
		r.Use(api.BearerAuth(decoder))

		engine.Mount(r, user.Handlers{Users: loader}.Endpoints())
		engine.Mount(r, merchant.Handlers{Merchants: merchantClient, Devices: deviceClient}.Endpoints())
		engine.Mount(r, device.Handlers{Devices: deviceClient}.Endpoints())
		engine.Mount(r, product.Handlers{Products: productClient}.Endpoints())
		engine.Mount(r, order.Handlers{Orders: orderClient}.Endpoints())
		engine.Mount(r, voucher.Handlers{Vouchers: voucherClient}.Endpoints())
		engine.Mount(r, ledger.Handlers{Ledger: ledgerClient}.Endpoints())
		engine.Mount(r, customer.Handlers{Customers: customerClient}.Endpoints())
		engine.Mount(r, contents.Handlers{Contents: contentsClient}.Endpoints())
		engine.Mount(r, maintenance.Handlers{Maintenance: maintenanceClient, Devices: deviceClient}.Endpoints())
	})

	return r
}
