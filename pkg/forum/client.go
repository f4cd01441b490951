package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elonfeng/bullhorn/internal/logger"
	"go.uber.org/zap"
)

// DefaultTimeout is the per-request ceiling applied to every forum call.
const DefaultTimeout = 30 * time.Second

// Client talks to a Discourse forum: the paginated category listing and
// the raw-content endpoint. Every call is attempted exactly once, with no
// retry and no caching.
type Client struct {
	http       *http.Client
	baseURL    string
	slug       string
	categoryID int
	log        logger.Logger
}

// NewClient creates a forum client for one category.
func NewClient(baseURL, slug string, categoryID int, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		slug:       slug,
		categoryID: categoryID,
		log:        log,
	}
}

// ListTopics pages through the category listing from page 0 and returns
// every topic seen, in page order then intra-page order. An empty page,
// a transport error, a non-success status, and malformed JSON all end
// the walk normally; whatever accumulated so far is returned. Topics
// without a usable id are skipped.
func (c *Client) ListTopics(ctx context.Context) []Topic {
	var topics []Topic

	for page := 0; ; page++ {
		c.log.Info("fetching topic page", zap.Int("page", page))

		pageTopics, err := c.fetchPage(ctx, page)
		if err != nil {
			c.log.Error("failed to fetch topic page", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(pageTopics) == 0 {
			c.log.Info("no more topics", zap.Int("page", page))
			break
		}

		for _, wt := range pageTopics {
			if wt.ID == 0 {
				continue
			}
			topics = append(topics, Topic{
				ID:        wt.ID,
				Title:     strings.TrimSpace(wt.Title),
				Views:     wt.Views,
				LikeCount: wt.LikeCount,
			})
		}
	}

	c.log.Info("retrieved topics", zap.Int("count", len(topics)))
	return topics
}

// RawContent fetches the raw Markdown source of a topic's first post.
// Any failure is logged and yields an empty string, never an error.
func (c *Client) RawContent(ctx context.Context, topicID int) string {
	url := fmt.Sprintf("%s/raw/%d", c.baseURL, topicID)
	c.log.Info("fetching raw content", zap.Int("topic_id", topicID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Error("create raw request", zap.Int("topic_id", topicID), zap.Error(err))
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("fetch raw content", zap.Int("topic_id", topicID), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("fetch raw content", zap.Int("topic_id", topicID),
			zap.Int("status", resp.StatusCode))
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("read raw content", zap.Int("topic_id", topicID), zap.Error(err))
		return ""
	}
	return string(body)
}

type listResponse struct {
	TopicList struct {
		Topics []wireTopic `json:"topics"`
	} `json:"topic_list"`
}

type wireTopic struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Views     int    `json:"views"`
	LikeCount int    `json:"like_count"`
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]wireTopic, error) {
	url := fmt.Sprintf("%s/c/%s/%d/l/latest.json?page=%d", c.baseURL, c.slug, c.categoryID, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch page %d: status %d", page, resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return list.TopicList.Topics, nil
}
