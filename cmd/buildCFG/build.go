package buildCFG

import (
	"fmt"
	"os"

	"hackbot/internal/platform"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return &ServerConfig{Port: port}
}

// BuildDBConfig resolves the connection string from DATABASE_URL first,
// falling back to the config file.
func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := os.Getenv("DATABASE_URL")
	if masterDSN == "" {
		masterDSN = cfg.GetString("db.dsn")
	}
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database connection string is not configured")
	}

	opts := &dbpg.Options{
		MaxOpenConns: cfg.GetInt("db.max_open_conns"),
		MaxIdleConns: cfg.GetInt("db.max_idle_conns"),
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Msg("database config built")
	return masterDSN, nil, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	url := os.Getenv("RABBIT_URL")
	if url == "" {
		url = cfg.GetString("rabbit.url")
	}
	if url == "" {
		return nil, fmt.Errorf("rabbit url is not configured")
	}

	rc := &RabbitConfig{
		Url:      url,
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Exchange == "" {
		rc.Exchange = "role.ops"
	}
	if rc.Queue == "" {
		rc.Queue = "role.ops.queue"
	}

	log.Info().Msg("rabbit config built")
	return rc, nil
}

// BuildPlatformConfig reads the chat-platform credentials. Token and
// guild id come from the environment only; they never belong in a file.
func BuildPlatformConfig(cfg *config.Config, log *zerolog.Logger) (*platform.Config, error) {
	token := os.Getenv("PLATFORM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("PLATFORM_TOKEN is not set")
	}
	guildID := os.Getenv("GUILD_ID")
	if guildID == "" {
		return nil, fmt.Errorf("GUILD_ID is not set")
	}

	baseURL := cfg.GetString("platform.base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("platform.base_url is not configured")
	}

	log.Info().Msg("platform config built")
	return &platform.Config{
		BaseURL: baseURL,
		Token:   token,
		GuildID: guildID,
	}, nil
}
