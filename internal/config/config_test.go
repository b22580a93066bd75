package config_test

import (
	"testing"

	"github.com/okian/leetboard/internal/config"
	"github.com/okian/leetboard/internal/domain/leetcode"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.PostgresURL, convey.ShouldBeEmpty)
			convey.So(cfg.LeetCodeURL, convey.ShouldEqual, leetcode.DefaultURL)
			convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 10_000)
			convey.So(cfg.RefreshIntervalSec, convey.ShouldEqual, 300)
			convey.So(cfg.RefreshWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.SerializeRefresh, convey.ShouldBeFalse)
			convey.So(cfg.MaxImprovementLimit, convey.ShouldEqual, 50)
		})
	})
}
