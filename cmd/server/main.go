// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/pulsecrm-backend/internal/ai"
	"github.com/unclebandit/pulsecrm-backend/internal/auth"
	"github.com/unclebandit/pulsecrm-backend/internal/config"
	"github.com/unclebandit/pulsecrm-backend/internal/controller"
	"github.com/unclebandit/pulsecrm-backend/internal/db"
	"github.com/unclebandit/pulsecrm-backend/internal/handler"
	"github.com/unclebandit/pulsecrm-backend/internal/queue"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
	"github.com/unclebandit/pulsecrm-backend/internal/vendor"
)

func main() {
	cfg := config.Load()

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to database")

	userRepo := &repository.UserRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	orderRepo := &repository.OrderRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	logRepo := &repository.CommunicationLogRepository{DB: conn}

	dispatcher := &service.Dispatcher{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		LogRepo:      logRepo,
		Vendor:       &vendor.Client{URL: cfg.VendorURL},
	}

	// In rabbit mode the sends leave the process: cmd/worker consumes the
	// vendor_sends queue. The default memory driver keeps the same queue
	// shape in-process, with the dispatcher consuming its own jobs.
	if cfg.QueueDriver == "rabbit" {
		rq, err := queue.NewRabbitQueue(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer rq.Close()
		dispatcher.Sends = rq
		log.Println("📨 Vendor sends routed through RabbitMQ")
	} else {
		mq := queue.NewInMemoryQueue()
		mq.Subscribe(service.TopicVendorSends, dispatcher.HandleSendJob)
		dispatcher.Sends = mq
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		Dispatcher:   dispatcher,
	}
	orderService := &service.OrderService{
		OrderRepo:    orderRepo,
		CustomerRepo: customerRepo,
	}
	dashboardService := &service.DashboardService{
		CustomerRepo: customerRepo,
		CampaignRepo: campaignRepo,
	}

	aiClient := &ai.Client{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
	}

	authHandler := &auth.Handler{UserRepo: userRepo, Secret: cfg.JWTSecret}
	campaignController := &controller.CampaignController{CampaignService: campaignService}
	customerController := &controller.CustomerController{CustomerRepo: customerRepo}
	orderController := &controller.OrderController{OrderService: orderService}
	aiController := &controller.AIController{AI: aiClient, CampaignService: campaignService}
	dashboardController := &controller.DashboardController{DashboardService: dashboardService}

	simulator := &vendor.Simulator{ReceiptURL: cfg.ReceiptURL}
	deliveryHandler := &handler.DeliveryHandler{LogRepo: logRepo, Notifier: dispatcher}

	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/auth/login", authHandler.Login)

	// Vendor transport pair: unauthenticated by design, the vendor is an
	// external collaborator.
	r.Post("/api/vendor/send", simulator.HandleSend)
	r.Post("/api/delivery/receipt", deliveryHandler.ReceiveReceipt)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.JWTSecret))

		r.Get("/api/auth/me", authHandler.Me)

		r.Get("/api/customers", customerController.ListCustomers)
		r.Post("/api/customers", customerController.CreateCustomer)

		r.Post("/api/orders", orderController.CreateOrder)

		r.Post("/api/ai/convert-rules", aiController.ConvertRules)
		r.Post("/api/ai/generate-message", aiController.GenerateMessage)

		r.Post("/api/audience/size", campaignController.AudienceSize)

		r.Get("/api/campaigns", campaignController.ListCampaigns)
		r.Post("/api/campaigns", campaignController.CreateCampaign)

		r.Get("/api/dashboard/stats", dashboardController.Stats)
	})

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
