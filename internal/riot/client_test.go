package riot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.RiotConfig{
		APIKey:            "RGAPI-test-key-123456",
		BaseURL:           server.URL,
		RequestsPerSecond: 100,
		RequestsPer2Min:   1000,
		Timeout:           5 * time.Second,
		MaxRetries:        2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(&config.RiotConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("NewClient() without an api key should fail")
	}
}

func TestGetMatch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "RGAPI-test-key-123456" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/lol/match/v5/matches/NA1_42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"metadata": {"matchId": "NA1_42", "participants": ["p1"]},
			"info": {
				"gameDuration": 1500,
				"platformId": "NA1",
				"teams": [{"teamId": 100, "win": true, "bans": [{"championId": 55, "pickTurn": 1}],
				           "objectives": {"tower": {"first": true, "kills": 7}}}],
				"participants": [{"participantId": 1, "puuid": "p1", "teamPosition": "UTILITY",
				                  "challenges": {"soloKills": 2}}]
			}
		}`)
	})

	match, err := client.GetMatch(context.Background(), "NA1_42")
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if match.Info.GameDuration != 1500 {
		t.Errorf("GameDuration = %d, want 1500", match.Info.GameDuration)
	}
	if got := match.Info.Teams[0].Objectives.Tower.Kills; got != 7 {
		t.Errorf("tower kills = %d, want 7", got)
	}
	p := match.Info.Participants[0]
	if p.Challenges == nil || p.Challenges.SoloKills == nil || *p.Challenges.SoloKills != 2 {
		t.Errorf("challenges.soloKills not decoded: %+v", p.Challenges)
	}
	if p.Challenges.WardTakedownsBefore20M != nil {
		t.Errorf("absent challenge should stay nil")
	}
}

func TestGetMatchNotFound(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetMatch(context.Background(), "NA1_404")
	if !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("GetMatch() error = %v, want ErrMatchNotFound", err)
	}
}

func TestRetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"metadata": {"matchId": "NA1_1"}, "info": {"frames": [{"timestamp": 0}]}}`)
	})

	timeline, err := client.GetTimeline(context.Background(), "NA1_1")
	if err != nil {
		t.Fatalf("GetTimeline() error = %v", err)
	}
	if len(timeline.Info.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(timeline.Info.Frames))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestRateLimitRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetMatch(context.Background(), "NA1_1")
	if !errors.Is(err, domain.ErrVendorUnavailable) {
		t.Fatalf("error = %v, want ErrVendorUnavailable", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestServerErrorIsVendorUnavailable(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetMatch(context.Background(), "NA1_1")
	if !errors.Is(err, domain.ErrVendorUnavailable) {
		t.Fatalf("error = %v, want ErrVendorUnavailable", err)
	}
}

func TestRegionalBaseURL(t *testing.T) {
	tests := []struct {
		matchID string
		want    string
	}{
		{"NA1_4567", americasBaseURL},
		{"BR1_1", americasBaseURL},
		{"EUW1_7000", europeBaseURL},
		{"eun1_1", europeBaseURL},
		{"KR_99", asiaBaseURL},
		{"OC1_5", seaBaseURL},
		{"garbage", americasBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.matchID, func(t *testing.T) {
			if got := regionalBaseURL(tt.matchID); got != tt.want {
				t.Errorf("regionalBaseURL(%q) = %q, want %q", tt.matchID, got, tt.want)
			}
		})
	}
}

func TestParticipantHelpers(t *testing.T) {
	p := MatchParticipant{RiotIdGameName: "Faker", RiotIdTagline: "KR1", Item0: 3078, Item6: 3340}
	if got := p.DisplayName(); got != "Faker#KR1" {
		t.Errorf("DisplayName() = %q", got)
	}
	legacy := MatchParticipant{SummonerName: "Old Name"}
	if got := legacy.DisplayName(); got != "Old Name" {
		t.Errorf("DisplayName() fallback = %q", got)
	}
	items := p.Items()
	if items[0] != 3078 || items[6] != 3340 {
		t.Errorf("Items() = %v", items)
	}

	frame := TimelineFrame{ParticipantFrames: map[string]ParticipantFrame{"3": {TotalGold: 500}}}
	if pf, ok := frame.ParticipantFrame(3); !ok || pf.TotalGold != 500 {
		t.Errorf("ParticipantFrame(3) = %+v, %v", pf, ok)
	}
	if _, ok := frame.ParticipantFrame(4); ok {
		t.Error("ParticipantFrame(4) should be absent")
	}
}
