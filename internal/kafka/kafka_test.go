package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantID   string
		wantExt  int64
		wantFail bool
	}{
		{name: "plain", value: `{"match_id":"EUW1_1"}`, wantID: "EUW1_1"},
		{name: "trimmed", value: `{"match_id":"  EUW1_2 "}`, wantID: "EUW1_2"},
		{name: "linked", value: `{"match_id":"EUW1_3","external_match_id":42}`, wantID: "EUW1_3", wantExt: 42},
		{name: "empty id", value: `{"match_id":""}`, wantFail: true},
		{name: "not json", value: `EUW1_4`, wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := decodeRequest([]byte(tt.value))
			if tt.wantFail {
				if err == nil {
					t.Fatalf("decodeRequest(%s) succeeded", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeRequest(%s) error = %v", tt.value, err)
			}
			if req.MatchID != tt.wantID {
				t.Errorf("MatchID = %q, want %q", req.MatchID, tt.wantID)
			}
			if tt.wantExt != 0 && (req.ExternalMatchID == nil || *req.ExternalMatchID != tt.wantExt) {
				t.Errorf("ExternalMatchID = %v, want %d", req.ExternalMatchID, tt.wantExt)
			}
		})
	}
}

func TestDecodeRequestEmptyID(t *testing.T) {
	if _, err := decodeRequest([]byte(`{}`)); !errors.Is(err, errEmptyMatchID) {
		t.Errorf("error = %v, want errEmptyMatchID", err)
	}
}

func TestBatchTimeout(t *testing.T) {
	cfg := &config.KafkaConfig{ImportTimeout: 5 * time.Second}
	if got := batchTimeout(cfg, 4); got != 20*time.Second {
		t.Errorf("batchTimeout = %v, want 20s", got)
	}
	if got := batchTimeout(&config.KafkaConfig{}, 2); got != time.Minute {
		t.Errorf("default batchTimeout = %v, want 1m", got)
	}
}

func TestProducerPublish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "EUW1_5" {
			return errors.New("unexpected key " + string(key))
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var req domain.ImportRequest
		if err := json.Unmarshal(value, &req); err != nil {
			return err
		}
		if req.MatchID != "EUW1_5" {
			return errors.New("unexpected match id " + req.MatchID)
		}
		return nil
	})

	p := newProducer(mock, "game-imports")
	if _, _, err := p.Publish(domain.ImportRequest{MatchID: "EUW1_5"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPendingBatchDropsRepeatedMatch(t *testing.T) {
	b := newPendingBatch(4)
	b.add(domain.ImportRequest{MatchID: "EUW1_1"}, &sarama.ConsumerMessage{Offset: 1})
	b.add(domain.ImportRequest{MatchID: "EUW1_2"}, &sarama.ConsumerMessage{Offset: 2})
	b.add(domain.ImportRequest{MatchID: "EUW1_1"}, &sarama.ConsumerMessage{Offset: 3})

	if len(b.reqs) != 2 {
		t.Errorf("requests = %d, want 2", len(b.reqs))
	}
	if len(b.messages) != 3 {
		t.Errorf("messages = %d, want 3", len(b.messages))
	}

	b.reset()
	b.add(domain.ImportRequest{MatchID: "EUW1_1"}, &sarama.ConsumerMessage{Offset: 4})
	if len(b.reqs) != 1 || len(b.messages) != 1 {
		t.Errorf("after reset: requests = %d, messages = %d", len(b.reqs), len(b.messages))
	}
}
