package extract

import (
	"context"
	"fmt"
	"time"

	"crmlake/internal/record"
)

// InteractionSource names the interaction extraction collaborator.
const InteractionSource = "JSONPlaceholder API"

var (
	sentiments = []string{"positive", "neutral", "negative"}
	channels   = []string{"web", "mobile", "email"}
)

type placeholderPost struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type placeholderComment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Interactions extracts posts and comments and unifies them into
// one interaction dataset. The APIs carry no timestamps, sentiment
// or channel, so those are synthesized over the trailing 90 days.
func (e *Extractor) Interactions(ctx context.Context) (*record.Dataset, error) {
	e.logger.WithField("source", InteractionSource).Info("Extracting interactions")

	var posts []placeholderPost
	if err := e.client.GetJSON(ctx, e.cfg.JSONPlaceholderURL+"/posts", &posts); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	var comments []placeholderComment
	if err := e.client.GetJSON(ctx, e.cfg.JSONPlaceholderURL+"/comments", &comments); err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	extractedAt := e.now().UTC()
	baseDate := extractedAt.AddDate(0, 0, -90)

	records := make([]record.Record, 0, len(posts)+len(comments))

	for _, post := range posts {
		rec := record.Record{
			"id":           record.String(fmt.Sprintf("INT-%05d", post.ID)),
			"user_id":      record.String(fmt.Sprintf("CUST-%05d", post.UserID)),
			"type":         record.String("post"),
			"title":        record.String(post.Title),
			"content":      record.String(post.Body),
			"timestamp":    record.Time(e.syntheticTimestamp(baseDate)),
			"sentiment":    record.String(e.pick(sentiments)),
			"channel":      record.String(e.pick(channels)),
			"extracted_at": record.Time(extractedAt),
		}
		records = append(records, rec)
	}

	for _, comment := range comments {
		rec := record.Record{
			"id":           record.String(fmt.Sprintf("INT-%05d", 100+comment.ID)),
			"user_id":      record.String(fmt.Sprintf("CUST-%05d", comment.PostID)),
			"type":         record.String("comment"),
			"title":        record.String(comment.Name),
			"content":      record.String(comment.Body),
			"email":        record.String(comment.Email),
			"parent_id":    record.String(fmt.Sprintf("INT-%05d", comment.PostID)),
			"timestamp":    record.Time(e.syntheticTimestamp(baseDate)),
			"sentiment":    record.String(e.pick(sentiments)),
			"channel":      record.String(e.pick(channels)),
			"extracted_at": record.Time(extractedAt),
		}
		records = append(records, rec)
	}

	e.logger.WithField("records", len(records)).Info("Interaction extraction complete")

	return record.New(record.KindInteractions, InteractionSource, extractedAt, records), nil
}

func (e *Extractor) syntheticTimestamp(base time.Time) time.Time {
	return base.
		AddDate(0, 0, e.rng.Intn(90)).
		Add(time.Duration(e.rng.Intn(24)) * time.Hour).
		Add(time.Duration(e.rng.Intn(60)) * time.Minute)
}
