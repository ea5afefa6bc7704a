package config

import "os"

const (
	defaultWSURL  = "wss://api.piru.app"
	defaultAPIURL = "http://localhost:3000/api"
)

type Config struct {
	WSURL      string
	APIURL     string
	AdminToken string
	StatePath  string
}

// Load lee la configuración del entorno. El .env lo carga main antes de
// llamar aquí.
func Load() Config {
	cfg := Config{
		WSURL:      os.Getenv("PIRU_WS_URL"),
		APIURL:     os.Getenv("PIRU_API_URL"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		StatePath:  os.Getenv("PIRU_STATE_PATH"),
	}
	if cfg.WSURL == "" {
		cfg.WSURL = defaultWSURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.StatePath == "" {
		cfg.StatePath = "piru-admin.db"
	}
	return cfg
}
