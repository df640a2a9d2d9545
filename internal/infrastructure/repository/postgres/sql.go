package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/standing"
)

const pqUniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func nullIntToPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func nullTimeToTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time.UTC()
	return &v
}

type eventRecord struct {
	Minute         int    `json:"minute"`
	Type           string `json:"type"`
	CompetitorID   string `json:"competitor_id"`
	PlayerID       string `json:"player_id,omitempty"`
	AssistPlayerID string `json:"assist_player_id,omitempty"`
}

func encodeEvents(events []fixture.Event) (string, error) {
	if len(events) == 0 {
		return "[]", nil
	}
	records := make([]eventRecord, 0, len(events))
	for _, item := range events {
		records = append(records, eventRecord{
			Minute:         item.Minute,
			Type:           string(item.Type),
			CompetitorID:   item.CompetitorID,
			PlayerID:       item.PlayerID,
			AssistPlayerID: item.AssistPlayerID,
		})
	}
	encoded, err := sonic.Marshal(records)
	if err != nil {
		return "", errors.Wrap(err, "encode fixture events")
	}
	return string(encoded), nil
}

func decodeEvents(raw string) ([]fixture.Event, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var records []eventRecord
	if err := sonic.Unmarshal([]byte(raw), &records); err != nil {
		return nil, errors.Wrap(err, "decode fixture events")
	}
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]fixture.Event, 0, len(records))
	for _, item := range records {
		out = append(out, fixture.Event{
			Minute:         item.Minute,
			Type:           fixture.EventType(item.Type),
			CompetitorID:   item.CompetitorID,
			PlayerID:       item.PlayerID,
			AssistPlayerID: item.AssistPlayerID,
		})
	}
	return out, nil
}

func encodeForm(form []standing.Result) string {
	return standing.Row{Form: form}.FormString()
}

func decodeForm(raw string) []standing.Result {
	raw = strings.TrimSpace(raw)
	out := make([]standing.Result, 0, len(raw))
	for _, ch := range raw {
		result := standing.Result(string(ch))
		switch result {
		case standing.ResultWin, standing.ResultDraw, standing.ResultLoss:
			out = append(out, result)
		}
	}
	return out
}
