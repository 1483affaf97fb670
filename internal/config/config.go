package config

import (
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App       `yaml:"app"`
		HTTP      `yaml:"http"`
		Log       `yaml:"logger"`
		Storage   `yaml:"storage"`
		PG        `yaml:"postgres"`
		Scheduler `yaml:"scheduler"`
		Briefing  `yaml:"briefing"`
		Providers `yaml:"providers"`
		Speech    `yaml:"speech"`
	}

	App struct {
		Env     string `yaml:"env"     env-default:"local" env:"APP_ENV"`
		Name    string `yaml:"name"    env-default:"briefing-go"`
		Version string `yaml:"version" env-required:"true" env:"APP_VERSION"`
	}

	HTTP struct {
		IP         string        `yaml:"ip"           env-default:"0.0.0.0"`
		Port       string        `yaml:"port"         env-default:"8082" env:"HTTP_PORT"`
		Timeout    time.Duration `yaml:"timeout"      env-default:"15s"`
		IdleTimout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		CORS       struct {
			AllowedMethods     []string `yaml:"allowed_methods"`
			AllowedOrigins     []string `yaml:"allowed_origins"`
			AllowCredentials   bool     `yaml:"allow_credentials"`
			AllowedHeaders     []string `yaml:"allowed_headers"`
			OptionsPassthrough bool     `yaml:"options_passthrough"`
			ExposedHeaders     []string `yaml:"exposed_headers"`
			Debug              bool     `yaml:"debug"`
		} `yaml:"cors"`
	}

	Log struct {
		Level string `yaml:"log_level" env-default:"info" env:"LOG_LEVEL"`
	}

	Storage struct {
		URL string `yaml:"url" env-default:"file://./data/briefing.json" env:"STORAGE_URL"`
	}

	PG struct {
		PoolMax int `yaml:"pool_max" env-default:"2"`
	}

	Scheduler struct {
		TickInterval       time.Duration `yaml:"tick_interval"       env-default:"30s"`
		NotificationHour   int           `yaml:"notification_hour"   env-default:"12"`
		NotificationMinute int           `yaml:"notification_minute" env-default:"0"`
		ComposeTimeout     time.Duration `yaml:"compose_timeout"     env-default:"5s"`
		ComposeWorkers     int           `yaml:"compose_workers"     env-default:"4"`
	}

	Briefing struct {
		Region      string `yaml:"region"       env-default:"England"`
		WeatherCity string `yaml:"weather_city" env-default:"Exeter"`
		NewsCountry string `yaml:"news_country" env-default:"gb"`
	}

	Providers struct {
		CovidURL      string        `yaml:"covid_url"   env-default:"https://api.coronavirus.data.gov.uk"`
		WeatherURL    string        `yaml:"weather_url" env-default:"https://api.openweathermap.org"`
		WeatherAPIKey string        `yaml:"weather_key" env:"WEATHER_API_KEY"`
		NewsURL       string        `yaml:"news_url"    env-default:"https://newsapi.org"`
		NewsAPIKey    string        `yaml:"news_key"    env:"NEWS_API_KEY"`
		Timeout       time.Duration `yaml:"timeout"     env-default:"4s"`
		Retries       int           `yaml:"retries"     env-default:"1"`
	}

	Speech struct {
		// Command is the text-to-speech program; "-" turns speech off.
		Command string `yaml:"command" env-default:"espeak" env:"SPEECH_COMMAND"`
	}
)

const (
	EnvConfigPathName  = "CONFIG-PATH"
	FlagConfigPathName = "config"
)

var (
	configPath string
	instance   *Config
	once       sync.Once
)

// GetConfig returns app configs.
func GetConfig() *Config {
	once.Do(func() {
		flag.StringVar(
			&configPath,
			FlagConfigPathName,
			"",
			"this is app config file",
		)
		flag.Parse()

		log.Print("config init")

		if configPath == "" {
			configPath = os.Getenv(EnvConfigPathName)
		}
		if configPath == "" {
			configPath = "./configs/config.yml"
		}

		cfg, err := Load(configPath)
		if err != nil {
			helpText := "Briefing-Go - COVID briefing alarms and notifications"
			help, _ := cleanenv.GetDescription(&Config{}, &helpText)
			log.Print(help)
			log.Fatal(err)
		}
		instance = cfg
	})
	return instance
}

// Load reads the config file at path and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
