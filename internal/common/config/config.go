package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Raffle struct {
		// SlicePercent is the top share of ranked wallets that qualifies.
		SlicePercent int `env:"RAFFLE_SLICE_PERCENT" envDefault:"25"`

		// Ticket counts per rank tier.
		TicketsRank1      int `env:"RAFFLE_TICKETS_RANK1" envDefault:"25"`
		TicketsRanks2To5  int `env:"RAFFLE_TICKETS_RANKS_2_5" envDefault:"15"`
		TicketsRanks6To10 int `env:"RAFFLE_TICKETS_RANKS_6_10" envDefault:"10"`
		TicketsRemaining  int `env:"RAFFLE_TICKETS_REMAINING" envDefault:"1"`

		MaxTicketsPerWallet int `env:"RAFFLE_MAX_TICKETS_PER_WALLET" envDefault:"50"`
		WinnersCount        int `env:"RAFFLE_WINNERS_COUNT" envDefault:"3"`

		// Prizes labels winners by draw position (first label goes to place 1).
		Prizes []string `env:"RAFFLE_PRIZES" envSeparator:","`

		// CheckInterval drives the background scheduler that looks for a
		// pending daily draw.
		CheckInterval time.Duration `env:"RAFFLE_CHECK_INTERVAL" envDefault:"1m"`
	}

	VRF struct {
		// OracleURL is the HTTP endpoint of the randomness oracle. Empty
		// disables the oracle; the deterministic local source is used instead.
		OracleURL      string        `env:"VRF_ORACLE_URL" envDefault:""`
		FulfillTimeout time.Duration `env:"VRF_FULFILL_TIMEOUT" envDefault:"30s"`

		// SeedRotation is the master seed epoch length.
		SeedRotation time.Duration `env:"VRF_SEED_ROTATION" envDefault:"24h"`

		// LocalSecret feeds the deterministic fallback generator.
		LocalSecret string `env:"VRF_LOCAL_SECRET" envDefault:""`
	}

	Attestation struct {
		// PrivateKeySeed is the base64-encoded 32-byte Ed25519 seed. When
		// empty a volatile keypair is generated at startup.
		PrivateKeySeed string `env:"ATTESTATION_PRIVATE_KEY_SEED" envDefault:""`
	}

	Telegram struct {
		BotToken  string   `env:"BOT_TOKEN" envDefault:""`
		ChannelID int64    `env:"ANNOUNCE_CHANNEL_ID" envDefault:"0"`
		AdminIDs  []string `env:"ADMIN_IDS" envSeparator:","`
	}
}

func Load() *Config {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
