// chatcli is a terminal front end for the support chat API. It drives the
// client state store the way the web UI would: optimistic sends, a cached
// conversation list, and explicit error display when a send fails.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/quickdesk/quickdesk/internal/client"
	"github.com/quickdesk/quickdesk/internal/config"
)

func main() {
	cfg := config.Load()
	store := client.New(cfg.APIBaseURL)
	ctx := context.Background()

	fmt.Printf("support chat @ %s\n", cfg.APIBaseURL)
	fmt.Println("commands: /list, /open <id>, /delete <id>, /new, /quit")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				log.Fatalf("stdin: %v", err)
			}
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return

		case line == "/new":
			store.ClearChat()
			fmt.Println("started a new conversation")

		case line == "/list":
			store.RefreshConversations(ctx)
			if err := store.ConversationsError(); err != nil {
				fmt.Printf("could not load conversations: %v\n", err)
				continue
			}
			for _, c := range store.Conversations() {
				preview := ""
				if len(c.Messages) > 0 {
					preview = c.Messages[0].Text
					// truncate on rune boundaries so multi-byte text stays intact
					if r := []rune(preview); len(r) > 40 {
						preview = string(r[:40]) + "..."
					}
				}
				fmt.Printf("%s  %s  %s\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04"), preview)
			}

		case strings.HasPrefix(line, "/open "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/open "))
			if err := store.FetchHistory(ctx, id); err != nil {
				fmt.Printf("could not open %s: %v\n", id, err)
				continue
			}
			for _, m := range store.Messages() {
				fmt.Printf("[%s] %s\n", m.Sender, m.Text)
			}

		case strings.HasPrefix(line, "/delete "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/delete "))
			if err := store.DeleteConversation(ctx, id); err != nil {
				fmt.Printf("delete failed: %v\n", err)
				continue
			}
			fmt.Println("deleted")

		default:
			if err := store.SendMessage(ctx, line); err != nil {
				// the message stays in the local transcript; tell the user
				// the send did not complete instead of failing silently
				fmt.Printf("send failed: %v\n", err)
				continue
			}
			msgs := store.Messages()
			if len(msgs) > 0 {
				fmt.Printf("[bot] %s\n", msgs[len(msgs)-1].Text)
			}
		}
	}
}
