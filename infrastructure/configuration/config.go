package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/logger"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Storage     Storage     `json:"storage"`
	RedisClient RedisClient `json:"redisClient"`
	Dashboard   Dashboard   `json:"dashboard"`
}

type App struct {
	Port         int      `json:"port"`
	AllowOrigins []string `json:"allowOrigins"`
}

type YouTube struct {
	// APIKey, when set, is the pinned credential: share links never export it
	// and imported links cannot override it.
	APIKey string `json:"apiKey"`
}

type Storage struct {
	Driver         string `json:"driver"` // file | redis
	StatePath      string `json:"statePath"`
	VideoCachePath string `json:"videoCachePath"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	Database int    `json:"database"`
}

type Dashboard struct {
	// BaseURL is the dashboard address share links point at.
	BaseURL string `json:"baseURL"`
	// DefaultPeriodDays is the analysis window used before any user choice.
	DefaultPeriodDays int `json:"defaultPeriodDays"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}

	C.YouTube.APIKey = getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", "")

	C.Storage.Driver = getConfigValue(C.Storage.Driver, "STORAGE_DRIVER", "file")
	C.Storage.StatePath = getConfigValue(C.Storage.StatePath, "STATE_PATH", "data/state.json")
	C.Storage.VideoCachePath = getConfigValue(C.Storage.VideoCachePath, "VIDEO_CACHE_PATH", "data/videos.json")

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, "REDIS_HOST", "localhost")
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, "REDIS_PORT", "6379")
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, "REDIS_PASSWORD", "")

	C.Dashboard.BaseURL = getConfigValue(C.Dashboard.BaseURL, "DASHBOARD_BASE_URL", "http://localhost:4200")
	if v := os.Getenv("DEFAULT_PERIOD_DAYS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			C.Dashboard.DefaultPeriodDays = d
		}
	}
	if C.Dashboard.DefaultPeriodDays == 0 {
		C.Dashboard.DefaultPeriodDays = 7
	}

	if len(C.App.AllowOrigins) == 0 {
		if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
			C.App.AllowOrigins = strings.Split(v, ",")
		} else {
			C.App.AllowOrigins = []string{"http://localhost:4200", "http://localhost:4201"}
		}
	}
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
