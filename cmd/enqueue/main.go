package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/kafka"
)

func main() {
	_ = godotenv.Load()

	defaultBrokers := os.Getenv("KAFKA_BROKERS")
	if defaultBrokers == "" {
		defaultBrokers = "localhost:9094"
	}
	brokers := flag.String("brokers", defaultBrokers, "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "game-imports", "Kafka topic")
	external := flag.Int64("external", 0, "League match id to link the imported game to (single match only)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] MATCH_ID...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	matchIDs := flag.Args()
	if len(matchIDs) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *external != 0 && len(matchIDs) > 1 {
		logger.Error("-external needs exactly one match id", "match_ids", len(matchIDs))
		os.Exit(2)
	}

	producer, err := kafka.NewProducer(strings.Split(*brokers, ","), *topic)
	if err != nil {
		logger.Error("failed to create producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	failed := 0
	for _, id := range matchIDs {
		req := domain.ImportRequest{RequestID: uuid.NewString(), MatchID: id}
		if *external != 0 {
			req.ExternalMatchID = external
		}

		partition, offset, err := producer.Publish(req)
		if err != nil {
			logger.Error("failed to enqueue match", "match_id", id, "error", err)
			failed++
			continue
		}
		logger.Info("enqueued match",
			"match_id", id,
			"request_id", req.RequestID,
			"partition", partition,
			"offset", offset,
		)
	}

	if failed > 0 {
		producer.Close()
		os.Exit(1)
	}
}
