package api

import (
	"context"
	"os"

	"github.com/yethikrishna/y0-waitlist-builder/internal/auth"
	"github.com/yethikrishna/y0-waitlist-builder/internal/common"
	"github.com/yethikrishna/y0-waitlist-builder/internal/db"
	"github.com/yethikrishna/y0-waitlist-builder/internal/db/repositories"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/metrics"
	"github.com/yethikrishna/y0-waitlist-builder/internal/middleware"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
	"github.com/yethikrishna/y0-waitlist-builder/internal/services"
	"github.com/yethikrishna/y0-waitlist-builder/internal/workers"
)

type Repositories struct {
	Signups *repositories.SignupRepository
	Roles   *repositories.RoleRepository
}

// SignupDirectory is the read surface handlers use directly.
type SignupDirectory interface {
	FindByReferralCode(ctx context.Context, code string) (*entities.WaitlistSignup, error)
	ListAll(ctx context.Context) ([]entities.WaitlistSignup, error)
}

type Services struct {
	Signup *services.SignupService
	Stats  *services.StatsService
	Notify *services.NotificationService
	Cache  common.CacheInterface
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Workers  *workers.WorkersContainer
	Verifier *auth.TokenVerifier

	// Interface views of the repositories, mockable in handler tests.
	Signups SignupDirectory
	Roles   middleware.RoleChecker

	NotifySecret  string
	PublicBaseURL string
}

func InitDependencies(ctx context.Context, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Signups: repositories.NewSignupRepository(db.DB),
		Roles:   repositories.NewRoleRepository(db.PgDB),
	}

	var cacheSvc common.CacheInterface
	if os.Getenv("CACHE_BACKEND") == "redis" {
		cacheSvc = common.NewRedisCacheService(common.NewRedisClient())
	} else {
		cacheSvc = common.NewCacheService(60, 600)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	mailFrom := os.Getenv("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = "Y0 Waitlist <onboarding@resend.dev>"
	}

	var mailer common.Mailer
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		mailer = common.NewResendClient(key, mailFrom)
	} else {
		logging.Warn("RESEND_API_KEY not set, admin notifications disabled")
	}

	notifySvc := services.NewNotificationService(mailer, adminEmail, metricsReg)
	workersContainer := workers.InitWorkers(ctx, notifySvc)

	statsSvc := services.NewStatsService(repos.Signups, cacheSvc, metricsReg)
	signupSvc := services.NewSignupService(repos.Signups, workersContainer.Notify, metricsReg)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Signup: signupSvc,
			Stats:  statsSvc,
			Notify: notifySvc,
			Cache:  cacheSvc,
		},
		Workers:       workersContainer,
		Verifier:      auth.NewTokenVerifier([]byte(os.Getenv("ADMIN_JWT_SECRET"))),
		Signups:       repos.Signups,
		Roles:         repos.Roles,
		NotifySecret:  os.Getenv("NOTIFY_SHARED_SECRET"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
	}, nil
}
