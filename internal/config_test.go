package internal

import (
	"os"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_FromEnviron(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("AUTH_SECRET", "local-secret")
	t.Setenv("BROADCAST_ROOMS", " general, horror,, sci-fi ")
	t.Setenv("LIMIT_MESSAGES", "100")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal(8080, config.Port)
	req.Equal(2*time.Second, config.DeliveryTimeout)
	req.Equal(24*time.Hour, config.AuthTokenDuration)
	req.NotNil(config.LimitMessages)
	req.Equal(100, *config.LimitMessages)
	req.Equal([]string{"general", "horror", "sci-fi"}, config.BroadcastRoomNames())
}

func TestConfig_Requires_Secret(t *testing.T) {
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	// Registered so the variable is restored afterwards
	t.Setenv("AUTH_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	require.Error(t, err)
}
