package cmd

import (
	"context"

	"github.com/Malowking/edugo/core/cache"
	"github.com/Malowking/edugo/internal/controller/edugo"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "student-management-assistant"

var (
	Main = gcmd.Command{
		Name:  "main",
		Usage: "main",
		Brief: "start http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			deps, err := initComponents(ctx)
			if err != nil {
				g.Log().Fatalf(ctx, "Initialization failed:\n%v", err)
			}
			defer func() {
				_ = cache.CloseRedis(ctx)
			}()

			s := g.Server()

			// 导出文件通过静态路径下载
			s.AddStaticPath("/"+deps.Exporter.URLPrefix(), deps.Exporter.Dir())

			s.BindHandler("GET:/health", func(r *ghttp.Request) {
				r.Response.WriteJson(g.Map{
					"status":  "healthy",
					"service": serviceName,
				})
			})
			s.BindHandler("GET:/metrics", ghttp.WrapH(promhttp.Handler()))

			s.Group("/api", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(
					edugo.NewV1(deps),
				)
			})
			s.Run()
			return nil
		},
	}
)
