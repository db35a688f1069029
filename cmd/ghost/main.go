package main

import (
	"cinechat/auth"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
}

// ghost mints a token for a throwaway account, the way a guest login would.
func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ghost: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	userID := flag.String("user", "", "User id to mint a token for, a fresh ghost id when empty")
	flag.Parse()

	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	if *userID == "" {
		*userID = "ghost-" + uuid.NewString()
	}
	token, err := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration).
		GenerateToken(*userID, auth.RoleGhost)
	if err != nil {
		return exitRuntime, err
	}

	fmt.Fprintf(os.Stderr, "user: %s\n", *userID)
	fmt.Println(token)
	return exitOK, nil
}
