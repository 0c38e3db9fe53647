package cleaning

import (
	"context"

	"log/slog"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

// CleanPageviews validates the website_pageviews table. Events without a
// session id or URL are useless to the funnel aggregation and are dropped.
// Pageviews are not deduplicated; repeated views of the same page are real
// events.
func (c *Cleaner) CleanPageviews(ctx context.Context, t *dataset.Table) ([]domain.Pageview, Fragment) {
	fragment := NewFragment(dataset.TablePageviews)
	fragment.RowsIn = t.Len()

	pageviews := make([]domain.Pageview, 0, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		sessionID, ok := row.Int64("website_session_id")
		if !ok {
			fragment.Count(ReasonMissingValue)
			continue
		}

		url := row.String("pageview_url")
		if url == "" {
			fragment.Count(ReasonMissingValue)
			continue
		}

		pageviewID, _ := row.Int64("website_pageview_id")
		createdAt, _ := row.Time("created_at")

		pageviews = append(pageviews, domain.Pageview{
			PageviewID: pageviewID,
			SessionID:  sessionID,
			CreatedAt:  createdAt,
			URL:        url,
		})
	}

	fragment.RowsOut = len(pageviews)
	c.logger.InfoContext(ctx, "cleaned pageviews table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut))

	return pageviews, fragment
}
