package cleaning

import (
	"context"
	"strings"

	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

var deviceCaser = cases.Title(language.English)

// CleanSessions validates the website_sessions table. Sessions are deduped on
// session_id keeping the first occurrence; rows without a parseable id,
// user_id, or timestamp are dropped since downstream ordering checks need
// valid values for all three.
func (c *Cleaner) CleanSessions(ctx context.Context, t *dataset.Table) ([]domain.Session, Fragment) {
	fragment := NewFragment(dataset.TableSessions)
	fragment.RowsIn = t.Len()

	sessions := make([]domain.Session, 0, t.Len())
	seen := make(map[int64]bool, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		id, ok := row.Int64("website_session_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}
		if seen[id] {
			fragment.Count(ReasonDuplicate)
			continue
		}

		startedAt, ok := row.Time("created_at")
		if !ok {
			fragment.Count(ReasonInvalidDate)
			continue
		}

		userID, ok := row.Int64("user_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}

		source := strings.ToLower(row.String("utm_source"))
		if source == "" {
			source = "direct"
		}

		device := deviceCaser.String(strings.ToLower(row.String("device_type")))
		if device == "" {
			device = "Unknown"
		}

		repeat := 0
		if v, ok := row.Int64("is_repeat_session"); ok && v > 0 {
			repeat = 1
		}

		seen[id] = true
		sessions = append(sessions, domain.Session{
			SessionID:       id,
			UserID:          userID,
			SessionDate:     startedAt,
			IsRepeatSession: repeat,
			TrafficSource:   source,
			UTMCampaign:     strings.ToLower(row.String("utm_campaign")),
			UTMContent:      strings.ToLower(row.String("utm_content")),
			HTTPReferer:     row.String("http_referer"),
			DeviceType:      device,
		})
	}

	fragment.RowsOut = len(sessions)
	c.logger.InfoContext(ctx, "cleaned sessions table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut),
		slog.Int("duplicates", fragment.Removed[ReasonDuplicate]))

	return sessions, fragment
}
