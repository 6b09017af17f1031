package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/replyforge/replyforge/internal/config"
	"github.com/replyforge/replyforge/internal/engine"
	"github.com/replyforge/replyforge/internal/enginelog"
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/store"
)

// loadEngine builds an engine from the config file and the SQLite store.
// The returned cleanup flushes and closes everything; call it before exit.
func loadEngine(ctx context.Context) (*engine.Engine, func(), error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	logger := enginelog.NewFromEnv()

	st, err := store.OpenSQLite(cfg.StorePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	eng := engine.New(ctx, st, engine.Options{
		Scoring:       cfg.ScorerConfig(),
		Logger:        logger,
		FlushInterval: time.Duration(cfg.FlushIntervalMs) * time.Millisecond,
	})

	cleanup := func() {
		if err := eng.Close(context.Background()); err != nil {
			logger.Warn("engine close", "error", err)
		}
		if err := st.Close(); err != nil {
			logger.Warn("store close", "error", err)
		}
	}
	return eng, cleanup, nil
}

// Shared context flags for rank and resolve.
var (
	ctxText   string
	ctxReply  bool
	ctxThread []string
	ctxHour   int
	ctxDay    int
)

func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ctxText, "text", "", "tweet text being replied to")
	cmd.Flags().BoolVar(&ctxReply, "reply", false, "composing a reply rather than a fresh post")
	cmd.Flags().StringArrayVar(&ctxThread, "thread", nil, "thread message as 'author: text' (repeatable, oldest first)")
	cmd.Flags().IntVar(&ctxHour, "hour", -1, "hour of day 0-23 (default: now)")
	cmd.Flags().IntVar(&ctxDay, "day", -1, "day of week 0-6, Sunday=0 (default: today)")
}

// buildContext assembles the reply context from flags, defaulting time fields
// to the local clock.
func buildContext() (reply.Context, error) {
	now := time.Now()
	hour := ctxHour
	if hour < 0 {
		hour = now.Hour()
	}
	if hour > 23 {
		return reply.Context{}, fmt.Errorf("--hour must be 0-23, got %d", hour)
	}
	day := ctxDay
	if day < 0 {
		day = int(now.Weekday())
	}
	if day > 6 {
		return reply.Context{}, fmt.Errorf("--day must be 0-6, got %d", day)
	}

	var thread []reply.Message
	for _, raw := range ctxThread {
		author, text, ok := strings.Cut(raw, ":")
		if !ok {
			return reply.Context{}, fmt.Errorf("--thread entry %q is not 'author: text'", raw)
		}
		thread = append(thread, reply.Message{
			Author: strings.TrimSpace(author),
			Text:   strings.TrimSpace(text),
		})
	}

	return reply.Context{
		TweetText:     ctxText,
		IsReply:       ctxReply || len(thread) > 0,
		ThreadContext: thread,
		TimeOfDay:     hour,
		DayOfWeek:     day,
	}, nil
}
