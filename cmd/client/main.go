package main

import (
	"bufio"
	"cinechat/auth"
	"cinechat/domain/chat"
	"cinechat/infrastructure/grpc/client"
	"cinechat/projection"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2

	cancelMatchTimeout = 5 * time.Second
)

type Config struct {
	Addr     string `env:"CHAT_ADDR,default=localhost:8080"`
	Token    string `env:"CHAT_TOKEN,required=true"`
	LogLevel string `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	roomName := flag.String("room", "", "Broadcast room to join, the first one when empty")
	match := flag.Bool("match", false, "Wait for a stranger and chat in a private room")
	list := flag.Bool("list", false, "List the rooms and exit")
	flag.Parse()

	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	selfID, err := auth.SubjectOf(config.Token)
	if err != nil {
		return exitConfig, fmt.Errorf("unusable CHAT_TOKEN: %w", err)
	}

	conn, err := grpc.NewClient(config.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(client.BearerToken(config.Token)))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to reach %s: %w", config.Addr, err)
	}
	defer func() { _ = conn.Close() }()
	chatClient := client.NewChatClient(logger, conn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *list {
		if err := printRooms(ctx, os.Stdout, chatClient); err != nil {
			return exitRuntime, err
		}
		return exitOK, nil
	}

	room, err := pickRoom(ctx, chatClient, *roomName, *match)
	if err != nil {
		return exitRuntime, err
	}

	session := projection.NewRoomSession(logger, chatClient, room, selfID)
	errChan := make(chan error, 1)
	go func() { errChan <- session.Run(ctx) }()

	screen := newScreen(os.Stdout, selfID)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-session.Timeline().Changes():
				screen.Render(session.Timeline())
			}
		}
	}()
	go readInput(ctx, os.Stdin, session, stop)

	err = <-errChan
	if err != nil && !errors.Is(err, context.Canceled) {
		return exitRuntime, err
	}
	return exitOK, nil
}

func printRooms(ctx context.Context, w io.Writer, c *client.ChatClient) error {
	broadcast, err := c.ListBroadcastRooms(ctx)
	if err != nil {
		return err
	}
	private, err := c.ListMatchRooms(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"KIND", "NAME", "ID", "CREATED"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, r := range append(broadcast, private...) {
		table.Append([]string{string(r.Kind), r.Name, string(r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	table.Render()
	return nil
}

func pickRoom(ctx context.Context, c *client.ChatClient, name string, match bool) (chat.Room, error) {
	if match {
		fmt.Fprintln(os.Stderr, "Waiting for a match...")
		roomID, err := awaitMatch(ctx, c)
		if err != nil {
			return chat.Room{}, fmt.Errorf("match failed: %w", err)
		}
		return c.GetRoom(ctx, roomID)
	}

	rooms, err := c.ListBroadcastRooms(ctx)
	if err != nil {
		return chat.Room{}, err
	}
	if len(rooms) == 0 {
		return chat.Room{}, errors.New("no broadcast room on this server")
	}
	if name == "" {
		return rooms[0], nil
	}
	room, ok := lo.Find(rooms, func(r chat.Room) bool { return r.Name == name })
	if !ok {
		return chat.Room{}, fmt.Errorf("unknown broadcast room %q", name)
	}
	return room, nil
}

type matcher interface {
	RequestMatch(ctx context.Context) (chat.RoomID, error)
	CancelMatch(ctx context.Context) error
}

// awaitMatch leaves the queue when ctx ends while waiting, so an interrupted
// client is never paired with someone after it quit.
func awaitMatch(ctx context.Context, m matcher) (chat.RoomID, error) {
	roomID, err := m.RequestMatch(ctx)
	if err == nil || ctx.Err() == nil {
		return roomID, err
	}
	cancelCtx, cancel := context.WithTimeout(context.Background(), cancelMatchTimeout)
	defer cancel()
	if cancelErr := m.CancelMatch(cancelCtx); cancelErr != nil {
		fmt.Fprintf(os.Stderr, "could not leave the queue: %v\n", cancelErr)
	}
	return "", err
}

// readInput sends every line typed. /reload refetches history, /quit leaves.
func readInput(ctx context.Context, r io.Reader, session *projection.RoomSession, quit func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			quit()
			return
		case "/reload":
			session.Reload(ctx)
			continue
		}
		if _, err := session.Send(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "not sent: %v\n", err)
		}
	}
	quit()
}
