package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/leetboard/internal/adapters/http/api"
	"github.com/okian/leetboard/internal/adapters/http/site"
	"github.com/okian/leetboard/internal/adapters/http/swagger"
	app "github.com/okian/leetboard/internal/app"
	"github.com/okian/leetboard/internal/config"
	"github.com/okian/leetboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("LEETBOARD_ADDR", ":8080")
			_ = os.Setenv("LEETBOARD_REFRESH_WORKERS", "4")
			defer func() {
				_ = os.Unsetenv("LEETBOARD_ADDR")
				_ = os.Unsetenv("LEETBOARD_REFRESH_WORKERS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RefreshWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithRefreshInterval(time.Minute),
					app.WithRefreshWorkers(8),
					app.WithSerializedRefresh(true),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When wiring the HTTP routes", func() {
			ctx := context.Background()
			svc := app.New()
			mux := http.NewServeMux()

			site.Register(ctx, mux)
			swagger.Register(ctx, mux)
			api.NewServer(svc, svc, 50).Register(ctx, mux)

			convey.Convey("Then the static routes should respond", func() {
				for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz"} {
					req := httptest.NewRequest("GET", path, http.NoBody)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)

					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})
	})
}
