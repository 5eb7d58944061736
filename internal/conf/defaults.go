// defaults.go: default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "WildSnap")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "wildsnap.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "wildsnap.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "wildsnap")
	viper.SetDefault("output.mysql.database", "wildsnap")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("vision.provider", "gemini")
	viper.SetDefault("vision.apikey", "")
	viper.SetDefault("vision.model", "gemini-1.5-flash")
	viper.SetDefault("vision.baseurl", "https://generativelanguage.googleapis.com")
	viper.SetDefault("vision.timeout", 60*time.Second)
	viper.SetDefault("vision.ratelimitms", 100)
	viper.SetDefault("vision.maxuploadsize", 5*1024*1024)
}
