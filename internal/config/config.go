package config

import (
	"os"
	"strings"
	"time"

	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/session"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

const envPrefix = "BUDGETWISE_"

type Application struct {
	Server  Server  `koanf:"server"`
	Budget  Budget  `koanf:"budget"`
	Session Session `koanf:"session"`
}

// Server timeouts are in seconds.
type Server struct {
	Address      string `koanf:"address"`
	ReadTimeout  int    `koanf:"readtimeout"`
	WriteTimeout int    `koanf:"writetimeout"`
	IdleTimeout  int    `koanf:"idletimeout"`
}

// Budget holds the settings every new session starts with.
type Budget struct {
	Weeks int     `koanf:"weeks"`
	Total float64 `koanf:"total"`
}

type Session struct {
	MaxSessions int `koanf:"maxsessions"`
	IdleMinutes int `koanf:"idleminutes"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Address:      ":8181",
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		Budget: Budget{
			Weeks: 4,
			Total: 0,
		},
		Session: Session{
			MaxSessions: 1000,
			IdleMinutes: 120,
		},
	}
}

func (b Budget) Settings() expense.BudgetSettings {
	return expense.BudgetSettings{BudgetWeeks: b.Weeks, TotalBudget: b.Total}
}

func (s Session) StoreConfig() session.Config {
	return session.Config{
		MaxSessions: s.MaxSessions,
		IdleTimeout: time.Duration(s.IdleMinutes) * time.Minute,
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (s Server) Timeouts() (read, write, idle time.Duration) {
	return seconds(s.ReadTimeout), seconds(s.WriteTimeout), seconds(s.IdleTimeout)
}

// Load reads defaults, then the optional YAML file at path, then BUDGETWISE_ environment
// variables. A .env file in the working directory is loaded into the environment first.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Budget.Settings().Validate(); err != nil {
		log.Errorf("invalid budget defaults: %v", err)
		return Application{}, err
	}

	return app, nil
}
