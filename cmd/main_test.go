package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/regrow/internal/adapters/repository"
	"github.com/okian/regrow/internal/config"
	"github.com/okian/regrow/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestApplication(t *testing.T) {
	convey.Convey("Given an application on a SQLite file", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StorePath = filepath.Join(t.TempDir(), "regrow.db")
		cfg.Timezone = "UTC"

		a, err := newApplication(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the user onboards and checks off a task", func() {
			convey.So(serve(a.handler, http.MethodPost, "/onboarding").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(a.handler, http.MethodPost, "/tasks/sunlight/toggle").Code, convey.ShouldEqual, http.StatusOK)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			a.shutdown(shutdownCtx)

			convey.Convey("Then the state survives a restart", func() {
				store, err := repository.Open(ctx, config.DriverSQLite, cfg.StorePath)
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = store.Close() }()

				state := repository.NewStateRepository(store, repository.WithLogger(logger.Nop())).Load(ctx)
				convey.So(state.User.OnboardingComplete, convey.ShouldBeTrue)
				convey.So(len(state.DailyData), convey.ShouldEqual, 1)
				for _, day := range state.DailyData {
					convey.So(day.Truthy("sunlight"), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When the docs and health routes are requested", func() {
			defer a.shutdown(ctx)

			convey.Convey("Then both are served from the same mux", func() {
				convey.So(serve(a.handler, http.MethodGet, "/healthz").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(serve(a.handler, http.MethodGet, "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})

	convey.Convey("Given a config with an unknown timezone", t, func() {
		cfg := config.New()
		cfg.StoreDriver = config.DriverMemory
		cfg.Timezone = "Not/AZone"

		convey.Convey("Then the application refuses to start", func() {
			a, err := newApplication(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(a, convey.ShouldBeNil)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then an update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns once its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
