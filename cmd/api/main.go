package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/config"
	"github.com/moaform/moaform-api/internal/guard"
	"github.com/moaform/moaform-api/internal/infra/database"
	"github.com/moaform/moaform-api/internal/infra/http/handlers"
	"github.com/moaform/moaform-api/internal/infra/http/middleware"
	"github.com/moaform/moaform-api/internal/infra/integration/airtable"
	"github.com/moaform/moaform-api/internal/infra/integration/aligo"
	"github.com/moaform/moaform-api/internal/infra/integration/kakao"
	"github.com/moaform/moaform-api/internal/infra/integration/slack"
	"github.com/moaform/moaform-api/internal/infra/integration/telegram"
	"github.com/moaform/moaform-api/internal/infra/mail"
	"github.com/moaform/moaform-api/internal/usecase"
)

func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// 1. Store (Airtable holds every business record)
	at := airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID)
	tenantRepo := database.NewTenantRepository(at, cfg.TenantTable, cfg.BlacklistTable)
	leadRepo := database.NewLeadRepository(at)

	// 2. In-memory guards + periodic sweep
	dedup := guard.NewDuplicateSuppressor()
	abuse := guard.NewAbuseCounter()
	go sweepLoop(dedup, abuse)

	// 3. Notification channels
	notifier := usecase.NewNotifier(
		telegram.NewClient(cfg.TelegramBotToken),
		slack.NewClient(cfg.SlackBotToken),
		aligo.NewClient(cfg.AligoAPIKey, cfg.AligoUserID, cfg.AligoSender),
		mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom),
	)
	notifier.OnError = middleware.RecordNotificationError

	// 4. UseCases
	submitUC := usecase.NewSubmitLeadUseCase(tenantRepo, leadRepo, dedup, abuse, notifier, cfg.BlacklistCheckTypes)
	kakaoLoginUC := usecase.NewKakaoLoginUseCase(tenantRepo, leadRepo)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(submitUC, tenantRepo, leadRepo)
	tenantHandler := handlers.NewTenantHandler(tenantRepo)
	authHandler := handlers.NewAuthHandler(kakao.NewClient(cfg.KakaoRESTKey, cfg.KakaoRedirectURI), kakaoLoginUC)
	healthHandler := handlers.NewHealthHandler(cfg)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/api/leads/submit", leadHandler.HandleSubmit)
	r.Patch("/api/tenants/{tenantID}/leads/{leadID}/status", leadHandler.HandleUpdateStatus)
	r.Get("/api/tenants/{slug}", tenantHandler.HandleGetConfig)
	r.Get("/api/auth/kakao", authHandler.HandleLoginStart)
	r.Get("/api/auth/kakao/callback", authHandler.HandleCallback)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.ServerPort
	logrus.Infof("🔥 moaform API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logrus.Fatal(err)
	}
}

// sweepLoop bounds the guards' memory on long-running instances. Expired
// entries behave as absent either way, so the interval is not load-bearing.
func sweepLoop(dedup *guard.DuplicateSuppressor, abuse *guard.AbuseCounter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		dedup.Sweep()
		abuse.Sweep()
	}
}
