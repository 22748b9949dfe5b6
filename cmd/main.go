// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title SoilSense Hub API
// @version 1.0
// @description Telemetry ingest and command relay for a soil monitoring field device.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting SoilSense Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"   _____       _ _  _____                     ",
		"  / ____|     (_) |/ ____|                    ",
		" | (___   ___  _| | (___   ___ _ __  ___  ___ ",
		"  \\___ \\ / _ \\| | |\\___ \\ / _ \\ '_ \\/ __|/ _ \\",
		"  ____) | (_) | | |____) |  __/ | | \\__ \\  __/",
		" |_____/ \\___/|_|_|_____/ \\___|_| |_|___/\\___|",
		"................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
