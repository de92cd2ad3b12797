package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liemthanh24/notekeeper/pkg/ai"
	"github.com/liemthanh24/notekeeper/pkg/backup"
	"github.com/liemthanh24/notekeeper/pkg/codec"
	"github.com/liemthanh24/notekeeper/pkg/config"
	"github.com/liemthanh24/notekeeper/pkg/db"
	"github.com/liemthanh24/notekeeper/pkg/notify"
	"github.com/liemthanh24/notekeeper/pkg/scheduler"
	"github.com/liemthanh24/notekeeper/pkg/store"
)

func main() {
	configPath := flag.String("config", "notekeeper.yaml", "Path to config file")
	dataFile := flag.String("data", "", "Path to data file (overrides config)")
	dbPath := flag.String("db", "", "Path to firing-history SQLite DB (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *dbPath != "" {
		cfg.HistoryDB = *dbPath
	}

	// Firing history
	database, err := db.NewDB(cfg.HistoryDB)
	if err != nil {
		log.Fatalf("Failed to open history DB: %v", err)
	}
	defer database.Close()
	if err := database.InitSchema(); err != nil {
		log.Fatalf("Failed to init history schema: %v", err)
	}
	repo := db.NewRepository(database)

	// Entity store
	st := store.Open(codec.New(cfg.DataFile))
	defer st.Close()

	// Notification channels: the log is always on, chat channels are
	// optional.
	notifiers := notify.Multi{notify.LogNotifier{}}

	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	if telegramToken == "" {
		telegramToken = cfg.Notifications.Telegram.Token
	}
	if telegramToken != "" && cfg.Notifications.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(telegramToken, cfg.Notifications.Telegram.ChatID)
		if err != nil {
			log.Printf("Failed to create Telegram notifier: %v", err)
		} else {
			notifiers = append(notifiers, tg)
			log.Println("Telegram notifications enabled")
		}
	}

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		discordToken = cfg.Notifications.Discord.Token
	}
	if discordToken != "" && cfg.Notifications.Discord.ChannelID != "" {
		dc, err := notify.NewDiscord(discordToken, cfg.Notifications.Discord.ChannelID)
		if err != nil {
			log.Printf("Failed to create Discord notifier: %v", err)
		} else {
			notifiers = append(notifiers, dc)
			defer dc.Close()
			log.Println("Discord notifications enabled")
		}
	}

	// AI collaborator for the UI layer
	var generator ai.Generator
	switch cfg.AI.Provider {
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			log.Println("GEMINI_API_KEY not set, AI features disabled")
		} else {
			geminiClient, err := ai.NewGeminiClient(context.Background(), key)
			if err != nil {
				log.Printf("Failed to create Gemini client: %v", err)
			} else {
				defer geminiClient.Close()
				generator = geminiClient
			}
		}
	case "ollama", "":
		generator = ai.NewOllamaClient(cfg.AI.BaseURL, cfg.AI.Model)
	default:
		log.Printf("Unknown AI provider %q, AI features disabled", cfg.AI.Provider)
	}
	if generator != nil {
		log.Printf("AI text generator ready (%s)", cfg.AI.Provider)
	}

	// Alarm scheduler
	sched := scheduler.New(st, notifiers, repo, cfg.Tick(), cfg.Suppression())
	sched.Start()

	// Optional git auto-backup of the data directory
	backupStop := make(chan struct{})
	if cfg.Backup.Enable {
		gitManager := backup.NewGitManager(cfg.Backup.RepoPath)
		go func() {
			ticker := time.NewTicker(cfg.BackupInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := gitManager.Sync(""); err != nil {
						log.Printf("Backup failed: %v", err)
					}
				case <-backupStop:
					return
				}
			}
		}()
		log.Printf("Git auto-backup enabled (every %s)", cfg.BackupInterval())
	}

	log.Printf("notekeeper running, data file %s", cfg.DataFile)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down")
	close(backupStop)
	sched.Stop()
}
