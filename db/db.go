package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rqlite/gorqlite"
)

func New(conn *gorqlite.Connection) *Queries {
	return &Queries{
		conn: conn,
	}
}

type Queries struct {
	conn *gorqlite.Connection
}

// Video is a record of a processed video request.
type Video struct {
	ID        string
	User      string
	VideoID   string
	URL       string
	Question  string
	Summary   string
	Answer    string
	CreatedAt time.Time
}

func (q *Queries) VideoPut(ctx context.Context, v Video) (id string, err error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	stmt := gorqlite.ParameterizedStatement{
		Query: `insert into video (id, user_name, video_id, url, question, summary, answer, created_at)
values (?, ?, ?, ?, ?, ?, ?, ?)
on conflict(id) do update
set
    user_name = excluded.user_name,
    video_id = excluded.video_id,
    url = excluded.url,
    question = excluded.question,
    summary = excluded.summary,
    answer = excluded.answer
`,
		Arguments: []any{v.ID, v.User, v.VideoID, v.URL, v.Question, v.Summary, v.Answer, v.CreatedAt},
	}
	if _, err = q.conn.WriteOneParameterizedContext(ctx, stmt); err != nil {
		return v.ID, fmt.Errorf("db: video put failed: %w", err)
	}
	return v.ID, nil
}

func (q *Queries) VideoGet(ctx context.Context, id string) (v Video, ok bool, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `select id, user_name, video_id, url, question, summary, answer, created_at from video where id = ?`,
		Arguments: []any{id},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return Video{}, false, err
	}
	if !result.Next() {
		return Video{}, false, nil
	}
	if err = result.Scan(&v.ID, &v.User, &v.VideoID, &v.URL, &v.Question, &v.Summary, &v.Answer, &v.CreatedAt); err != nil {
		return Video{}, false, err
	}
	return v, true, nil
}

// VideoList returns the most recently processed videos, newest first.
func (q *Queries) VideoList(ctx context.Context, limit int) (videos []Video, err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `select id, user_name, video_id, url, question, summary, answer, created_at from video order by created_at desc limit ?`,
		Arguments: []any{limit},
	}
	result, err := q.conn.QueryOneParameterizedContext(ctx, stmt)
	if err != nil {
		return videos, err
	}
	for result.Next() {
		var v Video
		if err = result.Scan(&v.ID, &v.User, &v.VideoID, &v.URL, &v.Question, &v.Summary, &v.Answer, &v.CreatedAt); err != nil {
			return videos, err
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func (q *Queries) VideoDelete(ctx context.Context, id string) (err error) {
	stmt := gorqlite.ParameterizedStatement{
		Query:     `delete from video where id = ?`,
		Arguments: []any{id},
	}
	_, err = q.conn.WriteOneParameterizedContext(ctx, stmt)
	return err
}
