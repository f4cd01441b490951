package forum

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Edition is one newsletter entry from the category RSS feed.
type Edition struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// LatestEditions reads the category RSS feed and returns the newest
// editions, feed order preserved. Unlike listing and raw fetching this
// surfaces its error: the feed is an on-demand lookup, not a pipeline
// stage, and the caller decides what a failure means.
func (c *Client) LatestEditions(ctx context.Context, limit int) ([]Edition, error) {
	url := fmt.Sprintf("%s/c/%s/%d.rss", c.baseURL, c.slug, c.categoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", "bullhorn/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var editions []Edition
	for _, entry := range parsed.Items {
		if limit > 0 && len(editions) >= limit {
			break
		}

		published := time.Time{}
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}

		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}

		editions = append(editions, Edition{
			Title:     entry.Title,
			Link:      link,
			Published: published,
		})
	}

	return editions, nil
}
