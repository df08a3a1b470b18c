package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Server   Server   `koanf:"server"`
	Frontend Frontend `koanf:"frontend"`
	YesPlan  YesPlan  `koanf:"yesplan"`
	Calendar Calendar `koanf:"calendar"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// YesPlan holds the upstream API settings. APIKey is mandatory:
// the client constructor refuses to start without it.
type YesPlan struct {
	BaseURL string `koanf:"baseurl"`
	APIKey  string `koanf:"apikey"`
}

type Calendar struct {
	// RelevantBookers is the allow-list used by the "Other" booker
	// bucket: events attributed to none of these names fall into it.
	RelevantBookers []string `koanf:"relevantbookers"`
	// MaxPages caps how many pages a single event fetch may follow.
	MaxPages int `koanf:"maxpages"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Server: Server{
			Addr: ":8181",
		},
		Frontend: Frontend{
			Enabled: true,
		},
		YesPlan: YesPlan{
			BaseURL: "https://neuf.yesplan.be/api",
		},
		Calendar: Calendar{
			RelevantBookers: []string{
				"Impro Neuf",
				"Det Norske Studentersamfund",
			},
			MaxPages: 10,
		},
	}, "koanf"), nil)
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
		Prefix: "BOOKINGCAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BOOKINGCAL_")), "_", ".")
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

	return app, nil
}
