package config

import (
	"testing"

	"github.com/quickplay-cli/quickplay/filesystem"
	"github.com/quickplay-cli/quickplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Engine defaults should match the worker contract", func() {
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.EngineHealthAttempts), ShouldEqual, 30)
			So(viper.GetInt(key.EngineHealthInterval), ShouldEqual, 1)
			So(viper.GetInt(key.EngineStopGrace), ShouldEqual, 5)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("engine.health_interval"), ShouldEqual, "engine_health_interval")
		})
	})
}
