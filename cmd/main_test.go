package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	app "github.com/okian/octofit/internal/app"
	"github.com/okian/octofit/internal/config"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("OCTOFIT_ADDR", ":8080")
			_ = os.Setenv("OCTOFIT_EVENT_QUEUE_SIZE", "1000")
			_ = os.Setenv("OCTOFIT_MAX_VIEWS", "4")
			defer func() {
				_ = os.Unsetenv("OCTOFIT_ADDR")
				_ = os.Unsetenv("OCTOFIT_EVENT_QUEUE_SIZE")
				_ = os.Unsetenv("OCTOFIT_MAX_VIEWS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.MaxViews, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then a metrics manager should be creatable on its own registry", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a wired application", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New()
		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newRouter(ctx, svc)

		serve := func(method, target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
			return w
		}

		convey.Convey("Then every surface should be routed", func() {
			convey.So(serve("GET", "/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/dashboard").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("GET", "/views").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then stats should reflect the configuration", func() {
			stats := svc.GetStats()
			convey.So(stats["started"], convey.ShouldEqual, true)
			convey.So(stats["maxViews"], convey.ShouldEqual, cfg.MaxViews)
			convey.So(stats["apiBase"], convey.ShouldEqual, "http://localhost:8000/api/")
		})

		convey.Convey("Then unknown resources should be rejected", func() {
			convey.So(serve("POST", "/views/badges").Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the updaters run until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			svc := app.New()

			convey.Convey("Then they should return without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating metrics directly", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
			})
		})
	})
}
