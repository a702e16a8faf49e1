package web

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	authservice "github.com/goserg/guildrating/internal/auth/service"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
	"github.com/goserg/guildrating/internal/web/webpath"
)

type Config struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type backupRunner interface {
	Run(ctx context.Context) (string, error)
}

type Server struct {
	manager *service.RatingManager
	auth    *authservice.Service
	roster  *roster.Resolver
	backup  backupRunner
	perms   elo.Permissions
	app     *fiber.App
	cfg     Config
	log     *logrus.Entry
}

// New builds the JSON API. backup may be nil when snapshots are disabled.
func New(
	l *logrus.Logger,
	cfg Config,
	manager *service.RatingManager,
	authService *authservice.Service,
	resolver *roster.Resolver,
	perms elo.Permissions,
	backup backupRunner,
) *Server {
	server := Server{
		manager: manager,
		auth:    authService,
		roster:  resolver,
		backup:  backup,
		perms:   perms,
		cfg:     cfg,
		log: l.WithFields(map[string]interface{}{
			"from": "web",
		}),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return sendError(c, err)
		},
	})
	app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.JSON(webpath.Path())
	})
	app.Get(webpath.ApiRanks, server.handleRanks)
	app.Get(webpath.ApiLeaderboard, server.handleLeaderboard)
	app.Get(webpath.ApiPlayer, server.handlePlayer)
	app.Get(webpath.ApiHistory, server.handleHistory)

	app.Post(webpath.ApiMatches, server.authorize, server.handleMatch)
	app.Post(webpath.ApiWagers, server.authorize, server.handleWager)
	app.Post(webpath.ApiAdjust, server.authorize, server.handleAdjust)
	app.Post(webpath.ApiSet, server.authorize, server.handleSet)
	app.Post(webpath.ApiReset, server.authorize, server.handleReset)
	app.Post(webpath.ApiUndo, server.authorize, server.handleUndo)
	app.Get(webpath.ApiExport, server.authorize, server.handleExport)
	app.Post(webpath.ApiImport, server.authorize, server.handleImport)
	app.Post(webpath.ApiBackup, server.authorize, server.handleBackup)
	server.app = app
	return &server
}

func (s *Server) Serve() error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	s.log.WithField("addr", addr).Info("web server started")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

const operatorKey = "operator"

// authorize accepts a bearer token whose roles may change ratings.
func (s *Server) authorize(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return sendError(c, authservice.ErrNotAuthorized)
	}
	actor, err := s.auth.Authorize(strings.TrimSpace(token), s.perms)
	if err != nil {
		s.log.WithError(err).WithField("path", c.Path()).Warn("rejected operator request")
		return sendError(c, err)
	}
	c.Locals(operatorKey, actor)
	return c.Next()
}

func operator(c *fiber.Ctx) string {
	actor, _ := c.Locals(operatorKey).(elo.Actor)
	return actor.ID
}

func playerID(c *fiber.Ctx) string {
	return normalize.Name(c.Params("id"))
}

func (s *Server) handleRanks(c *fiber.Ctx) error {
	return c.JSON(elo.Ranks)
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLeaderboardSize)
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	profiles, err := s.manager.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(newLeaderboard(profiles))
}

func (s *Server) handlePlayer(c *fiber.Ctx) error {
	profile, err := s.manager.Profile(c.UserContext(), playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(newProfileResponse(profile))
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	profile, err := s.manager.Profile(c.UserContext(), playerID(c))
	if err != nil {
		return err
	}
	history := profile.History
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(history) {
		history = history[:limit]
	}
	return c.JSON(history)
}

func (s *Server) handleMatch(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	match, err := req.convertToDomainMatch(s.roster)
	if err != nil {
		return err
	}
	out := s.manager.ProcessMatchResult(c.UserContext(), match, operator(c))
	if out.Err != nil {
		return out.Err
	}
	return c.JSON(newBatchResponse(out))
}

func (s *Server) handleWager(c *fiber.Ctx) error {
	var req wagerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	out := s.manager.ProcessWagerResult(c.UserContext(), req.convertToDomainWager(), operator(c))
	if out.Err != nil {
		return out.Err
	}
	return c.JSON(newBatchResponse(out))
}

func (s *Server) handleAdjust(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sendUpdate(c, s.manager.ApplyManualChange(c.UserContext(), playerID(c), req.Delta, operator(c), req.Note))
}

func (s *Server) handleSet(c *fiber.Ctx) error {
	var req setRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sendUpdate(c, s.manager.SetRating(c.UserContext(), playerID(c), *req.Rating, operator(c), req.Note))
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	var req noteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return sendUpdate(c, s.manager.ResetRating(c.UserContext(), playerID(c), operator(c), req.Note))
}

func (s *Server) handleUndo(c *fiber.Ctx) error {
	return sendUpdate(c, s.manager.UndoLastChange(c.UserContext(), playerID(c), operator(c)))
}

func sendUpdate(c *fiber.Ctx, out service.UpdateOutcome) error {
	if !out.Success {
		return out.Err
	}
	return c.JSON(newUpdateResponse(out))
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	data, err := s.manager.Export(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ratings.json"`)
	return c.Send(data)
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	n, err := s.manager.Import(c.UserContext(), c.Body())
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"operator": operator(c),
		"profiles": n,
	}).Info("profiles imported over api")
	return c.JSON(fiber.Map{"imported": n})
}

func (s *Server) handleBackup(c *fiber.Ctx) error {
	if s.backup == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "backup is disabled")
	}
	key, err := s.backup.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"key": key})
}
