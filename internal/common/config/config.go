package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Health struct {
		Port int `env:"HEALTH_PORT" envDefault:"8080"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken    string `env:"BOT_TOKEN,required"`
		PollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"30"`
	}

	Engine struct {
		BaseURL string `env:"ENGINE_BASE_URL,required"`
		// WrappedNative is the wrap-token address; buying it wraps the
		// native coin instead of routing a swap.
		WrappedNative string `env:"WRAPPED_NATIVE_ADDRESS" envDefault:"0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6"`
	}

	Trading struct {
		MinBuyAmount       float64 `env:"MIN_BUY_AMOUNT" envDefault:"0.01"`
		DefaultSlippageBps int     `env:"DEFAULT_SLIPPAGE_BPS" envDefault:"10"`
		DefaultMaxGasGwei  int     `env:"DEFAULT_MAX_GAS_GWEI" envDefault:"10"`
		OrderTTLSeconds    int     `env:"ORDER_TTL_SECONDS" envDefault:"300"`
		ReplyTTLSeconds    int     `env:"REPLY_TTL_SECONDS" envDefault:"600"`

		// TokenMenu lists "address:symbol" pairs shown in the fast-buy menu.
		TokenMenu []string `env:"TOKEN_MENU" envSeparator:","`
	}
}

func Load() *Config {
	// No .env file is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
