package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/wastewise/wastewise-core/internal/agent/graph"
	"github.com/wastewise/wastewise-core/internal/agent/model"
)

// runAssist answers one message given as arguments, or every line read from
// stdin when no message is given. All turns share one conversation.
func runAssist(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "assist")
	conversation := fs.String("conversation", "", "conversation ID to continue; a new one is created when empty")
	reset := fs.Bool("reset", false, "clear the conversation history first; requires --conversation")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *reset && *conversation == "" {
		return usageErr("assist: --reset requires --conversation")
	}
	if d.NewAssistant == nil {
		return fmt.Errorf("assistant is not configured")
	}

	rdb, err := openRedis(ctx, d)
	if err != nil {
		return err
	}
	defer rdb.Close()

	runner, err := d.NewAssistant(ctx, rdb)
	if err != nil {
		return fmt.Errorf("build assistant: %w", err)
	}

	conversationID := *conversation
	msg := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if *reset {
		n, err := runner.Reset(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("reset conversation: %w", err)
		}
		if msg == "" {
			return printJSON(d.Stdout, map[string]any{"conversation_id": conversationID, "cleared_messages": n})
		}
	}

	if msg != "" {
		_, err := ask(ctx, d, runner, conversationID, msg)
		return err
	}

	sc := bufio.NewScanner(d.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		conversationID, err = ask(ctx, d, runner, conversationID, line)
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func ask(ctx context.Context, d *Deps, runner graph.Runner, conversationID, query string) (string, error) {
	reply, err := runner.Invoke(ctx, model.QueryInput{ConversationID: conversationID, Query: query})
	if err != nil {
		return conversationID, err
	}
	return reply.ConversationID, printJSON(d.Stdout, reply)
}
