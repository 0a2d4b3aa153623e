// Package server assembles the Kratos transport servers.
package server

import (
	"context"

	"CourtGate/internal/conf"
	"CourtGate/internal/server/middleware"
	"CourtGate/internal/service"
	pkglog "CourtGate/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, courtService *service.CourtService, logger log.Logger) *http.Server {
	logHelper := pkglog.NewLogHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Logging(logHelper),
		),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != nil {
		opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := http.NewServer(opts...)

	registerRoutes(srv, courtService)

	return srv
}

func registerRoutes(srv *http.Server, svc *service.CourtService) {
	r := srv.Route("/v1")

	r.POST("/courts/search", func(ctx http.Context) error {
		var req service.SearchRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.Search(c, &req)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/courts/report", func(ctx http.Context) error {
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.Report(c)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/courts/health", func(ctx http.Context) error {
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.Health(c)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/fallback/manual/{id}/complete", func(ctx http.Context) error {
		var req service.CompleteRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		trackingID := ctx.Vars().Get("id")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.CompleteManualEntry(c, trackingID, &req)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/fallback/phone/{id}/complete", func(ctx http.Context) error {
		var req service.CompleteRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		verificationID := ctx.Vars().Get("id")
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.CompletePhoneVerification(c, verificationID, &req)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/breakers", func(ctx http.Context) error {
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.Breakers(c)
		})
		reply, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})
}
