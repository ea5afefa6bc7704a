package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/piru-app/admin-realtime/api"
	"github.com/piru-app/admin-realtime/config"
	"github.com/piru-app/admin-realtime/localstate"
	"github.com/piru-app/admin-realtime/realtime"
	"github.com/piru-app/admin-realtime/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env no encontrado: %v", err)
	}
	utils.InitLogger()

	cfg := config.Load()
	if cfg.AdminToken == "" {
		utils.ErrorLogger.Fatal("ADMIN_TOKEN es obligatorio")
	}
	if expired, err := utils.TokenExpired(cfg.AdminToken); err != nil {
		utils.ErrorLogger.Errorf("token ilegible: %v", err)
	} else if expired {
		utils.ErrorLogger.Errorln("el token ya venció; el servidor va a rechazar la conexión")
	}

	store, err := localstate.Open(cfg.StatePath)
	if err != nil {
		utils.ErrorLogger.Fatalf("no se pudo abrir el estado local: %v", err)
	}
	if impresora, err := store.SelectedPrinter(); err == nil && impresora != "" {
		utils.InfoLogger.Printf("impresora seleccionada: %s", impresora)
	}

	client := api.New(cfg.APIURL)
	client.SetToken(cfg.AdminToken)
	client.OnUnauthorized = func() {
		utils.ErrorLogger.Errorln("sesión rechazada por el backend (401)")
	}

	feed := realtime.NewAdminFeed(realtime.AdminConfig{
		WSURL: cfg.WSURL,
		API:   client,
	})
	cambios := feed.Subscribe()
	feed.SetToken(cfg.AdminToken)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	utils.InfoLogger.Printf("panel conectándose a %s", cfg.WSURL)

	var (
		lastConnected bool
		lastNotifID   string
	)
	for {
		select {
		case <-quit:
			utils.InfoLogger.Println("cerrando sesión admin")
			feed.Stop()
			return
		case <-cambios:
			snap := feed.Snapshot()
			if snap.IsConnected != lastConnected {
				lastConnected = snap.IsConnected
				if snap.IsConnected {
					utils.InfoLogger.Printf("en vivo: %d mesas", len(snap.Mesas))
				} else if snap.Error != "" {
					utils.ErrorLogger.Errorf("desconectado: %s", snap.Error)
				} else {
					utils.InfoLogger.Println("desconectado, reintentando")
				}
			}
			if len(snap.Notifications) > 0 && snap.Notifications[0].ID != lastNotifID {
				lastNotifID = snap.Notifications[0].ID
				n := snap.Notifications[0]
				utils.InfoLogger.Printf("[%s] %s (%d sin leer)", n.Tipo, n.Mensaje, snap.UnreadCount)
			}
		}
	}
}
