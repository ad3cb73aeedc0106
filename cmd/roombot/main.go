// Command roombot connects scripted clients to a running plaza server.
// Each bot joins with a generated name, wanders around the room, and chats
// occasionally. It is useful for smoke-testing a deployment and for
// populating the room during client development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
)

// envelope mirrors the server's wire framing.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var chatLines = []string{
	"hello plaza!",
	"anyone up for tic-tac-toe?",
	"nice look!",
	"brb",
	"over here",
}

func main() {
	cmd := &cli.Command{
		Name:  "roombot",
		Usage: "drive scripted clients against a plaza server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "ws://localhost:3000/ws",
				Usage: "websocket endpoint of the plaza server",
			},
			&cli.IntFlag{
				Name:  "bots",
				Value: 3,
				Usage: "number of concurrent bots",
			},
			&cli.DurationFlag{
				Name:  "duration",
				Value: 30 * time.Second,
				Usage: "how long the bots stay connected",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: 500 * time.Millisecond,
				Usage: "delay between bot actions",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	bots := int(cmd.Int("bots"))
	duration := cmd.Duration("duration")
	interval := cmd.Duration("interval")

	log.Printf("Starting %d bots against %s for %s", bots, url, duration)

	var wg sync.WaitGroup
	for i := 0; i < bots; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := runBot(ctx, url, fmt.Sprintf("Bot-%d", n), duration, interval); err != nil {
				log.Printf("bot %d: %v", n, err)
			}
		}(i + 1)
	}
	wg.Wait()

	log.Println("All bots finished")
	return nil
}

// runBot drives a single scripted client: join, wander, chat, disconnect.
func runBot(ctx context.Context, url, name string, duration, interval time.Duration) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	// Drain server events so the connection's read side keeps up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	x := 100 + rand.Float64()*600
	y := 100 + rand.Float64()*400

	if err := send(conn, "join", map[string]interface{}{
		"name": name,
		"x":    x,
		"y":    y,
		"look": map[string]string{"body": "robot"},
	}); err != nil {
		return err
	}

	deadline := time.After(duration)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		case <-ticker.C:
			if rand.Intn(10) == 0 {
				if err := send(conn, "chat", map[string]string{
					"text": chatLines[rand.Intn(len(chatLines))],
				}); err != nil {
					return err
				}
				continue
			}

			x += rand.Float64()*80 - 40
			y += rand.Float64()*80 - 40
			if err := send(conn, "move", map[string]float64{"x": x, "y": y}); err != nil {
				return err
			}
		}
	}
}

// send writes one enveloped event to the connection.
func send(conn *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(envelope{Event: event, Data: data})
}
