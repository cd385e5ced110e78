package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	embedded "github.com/PeterRema/calendario-project"
	authservice "github.com/PeterRema/calendario-project/auth/service"
	"github.com/PeterRema/calendario-project/internal/config"
	"github.com/PeterRema/calendario-project/internal/service"
	"github.com/PeterRema/calendario-project/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"
	"github.com/sirupsen/logrus"
)

type Server struct {
	auth       *authservice.Service
	activities *service.ActivityService
	app        *fiber.App
	cfg        config.Server
	log        *logrus.Entry
}

func New(cfg config.Server, auth *authservice.Service, activities *service.ActivityService, l *logrus.Logger) (*Server, error) {
	server := Server{
		auth:       auth,
		activities: activities,
		cfg:        cfg,
		log: l.WithFields(map[string]interface{}{
			"from": "web",
		}),
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(server.guard)
	app.Static(webpath.Assets, "./public")

	app.Get(webpath.Home, server.handleHome)
	app.Get(webpath.Login, server.handleGetLogin)
	app.Post(webpath.Login, server.handlePostLogin)
	app.Get(webpath.Logout, server.handleLogout)
	app.Get(webpath.Dashboard, server.handleDashboard)
	app.Get(webpath.Admin, server.handleAdmin)
	app.Get(webpath.AccountProfile, server.handleProfilePage)
	app.Get(webpath.AccountChangePassword, server.handleChangePasswordPage)

	app.Get(webpath.ApiAccountProfile, server.handleGetProfile)
	app.Put(webpath.ApiAccountProfile, server.handleUpdateProfile)
	app.Post(webpath.ApiAccountChangePassword, server.handleChangePassword)
	app.Get(webpath.ApiAdminUsers, server.handleListUsers)
	app.Post(webpath.ApiAdminUsers, server.handleCreateUser)
	app.Delete(webpath.ApiAdminUser, server.handleDeleteUser)
	app.Post(webpath.ApiAdminUserResetPassword, server.handleResetPassword)
	app.Get(webpath.ApiActivities, server.handleListActivities)
	app.Post(webpath.ApiActivities, server.handleCreateActivity)
	app.Get(webpath.ApiActivity, server.handleGetActivity)
	app.Put(webpath.ApiActivity, server.handleUpdateActivity)
	app.Delete(webpath.ApiActivity, server.handleDeleteActivity)

	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) handleHome(ctx *fiber.Ctx) error {
	return ctx.Render("index", newData("Calendario"), "layouts/main")
}

func (s *Server) handleGetLogin(ctx *fiber.Ctx) error {
	return ctx.Render("login", newData("Accedi"), "layouts/main")
}

func (s *Server) handlePostLogin(ctx *fiber.Ctx) error {
	email := ctx.FormValue("email", "")
	password := ctx.FormValue("password", "")
	user, err := s.auth.Login(ctx.Context(), email, password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			return ctx.Render("login", newData("Accedi").WithErrors(err), "layouts/main")
		}
		return s.apiError(ctx, err)
	}
	cookie, err := s.auth.GenerateJWTCookie(user, s.cfg.Host)
	if err != nil {
		return s.apiError(ctx, err)
	}
	ctx.Cookie(cookie)
	callback := ctx.FormValue("callback", webpath.Dashboard)
	return ctx.Redirect(callback)
}

func (s *Server) handleLogout(ctx *fiber.Ctx) error {
	ctx.ClearCookie("token")
	return ctx.Redirect(webpath.Home)
}

func (s *Server) handleDashboard(ctx *fiber.Ctx) error {
	claims, _ := claimsFromCtx(ctx)
	user, err := s.auth.GetUser(ctx.Context(), claims.UserID)
	if err != nil {
		return err
	}
	return ctx.Render("dashboard", newData("Calendario").WithUser(user), "layouts/main")
}

func (s *Server) handleAdmin(ctx *fiber.Ctx) error {
	claims, _ := claimsFromCtx(ctx)
	user, err := s.auth.GetUser(ctx.Context(), claims.UserID)
	if err != nil {
		return err
	}
	list, err := s.auth.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("admin", newData("Gestione utenti").WithUser(user).With("Users", list), "layouts/main")
}

func (s *Server) handleProfilePage(ctx *fiber.Ctx) error {
	claims, _ := claimsFromCtx(ctx)
	user, err := s.auth.GetUser(ctx.Context(), claims.UserID)
	if err != nil {
		return err
	}
	trail, err := s.auth.AuditTrail(ctx.Context(), claims.UserID)
	if err != nil {
		return err
	}
	return ctx.Render("profile", newData("Profilo").WithUser(user).With("Audit", trail), "layouts/main")
}

func (s *Server) handleChangePasswordPage(ctx *fiber.Ctx) error {
	return ctx.Render("changePassword", newData("Cambio password"), "layouts/main")
}
