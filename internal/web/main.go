package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/celebration"
	"github.com/larik-22/howufeelin/internal/config"
	fiberlogger "github.com/larik-22/howufeelin/internal/logger/adapter/fiber"
	"github.com/larik-22/howufeelin/internal/rbac"
	spotifyclient "github.com/larik-22/howufeelin/internal/spotify"
	"github.com/larik-22/howufeelin/internal/web/handler/dashboard"
	"github.com/larik-22/howufeelin/internal/web/handler/groups"
	"github.com/larik-22/howufeelin/internal/web/handler/login"
	"github.com/larik-22/howufeelin/internal/web/handler/logout"
	"github.com/larik-22/howufeelin/internal/web/handler/maintenance"
	"github.com/larik-22/howufeelin/internal/web/handler/profile"
	"github.com/larik-22/howufeelin/internal/web/handler/signup"
	spotifyhandler "github.com/larik-22/howufeelin/internal/web/handler/spotify"
	"github.com/larik-22/howufeelin/internal/web/middleware/auth"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	spotify      *spotifyclient.Client
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown

	if s.spotify != nil {
		s.spotify.Close()
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/healthz",
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// session based auth middleware
	app.Use(auth.Middleware)

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}

	rbacSvc := rbac.NewService(db)
	special := rbac.NewSpecialUsers(cfg.Special.CelebrationEmails, cfg.Special.MaintenanceEmails)

	window, err := celebration.NewWindow(cfg.Special.CelebrationDate, cfg.Special.CelebrationWindowDays)
	if err != nil {
		log.Error().Err(err).Str("date", cfg.Special.CelebrationDate).
			Msg("invalid celebration date, the banner stays off")
	}

	// init handlers (they register their own routes)
	login.Handler.Init(app, cfg, db)
	logout.Handler.Init(app, cfg)
	signup.Handler.Init(app, cfg, db)
	dashboard.Handler.Init(app, cfg, db, special, window)
	groups.Handler.Init(app, cfg, db, rbacSvc)
	maintenance.Handler.Init(app, cfg, db, special.Maintenance)
	profile.Handler.Init(app, cfg, db)

	if cfg.Spotify.Enabled {
		client, err := spotifyclient.New(spotifyclient.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURL:  cfg.Spotify.RedirectURL,
		})
		if err != nil {
			log.Error().Err(err).Msg("spotify linking disabled: client could not be built")
		} else {
			service.spotify = client
			spotifyhandler.Handler.Init(app, cfg, db, client)
		}
	}

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	// liveness endpoint used by the shutdown drain
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	service.alive.Store(true)

	return service
}
