package model

import "time"

type Thought struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	ImageURL  *string   `db:"image_url" json:"image_url"`
	VideoURL  *string   `db:"video_url" json:"video_url"`
	AudioURL  *string   `db:"audio_url" json:"audio_url"`
	IsQuote   bool      `db:"is_quote" json:"is_quote"`
	Ignited   bool      `db:"ignited" json:"ignited"`
	Archived  bool      `db:"archived" json:"archived"`
	GoalID    *string   `db:"goal_id" json:"goal_id"`
	Color     *string   `db:"color" json:"color"`
	IsPrivate bool      `db:"is_private" json:"is_private"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MediaURLs returns every attached media URL.
func (t *Thought) MediaURLs() []string {
	var urls []string
	for _, u := range []*string{t.ImageURL, t.VideoURL, t.AudioURL} {
		if u != nil && *u != "" {
			urls = append(urls, *u)
		}
	}
	return urls
}

// ThoughtInput is the payload for capturing a thought.
type ThoughtInput struct {
	Text      string  `json:"text"`
	ImageURL  *string `json:"image_url,omitempty"`
	VideoURL  *string `json:"video_url,omitempty"`
	AudioURL  *string `json:"audio_url,omitempty"`
	IsQuote   bool    `json:"is_quote"`
	GoalID    *string `json:"goal_id,omitempty"`
	Color     *string `json:"color,omitempty"`
	IsPrivate bool    `json:"is_private"`
}

// HasMedia reports whether any media URL is attached.
func (in ThoughtInput) HasMedia() bool {
	for _, u := range []*string{in.ImageURL, in.VideoURL, in.AudioURL} {
		if u != nil && *u != "" {
			return true
		}
	}
	return false
}

// ThoughtPatch carries the mutable flags of a thought. Nil fields are left unchanged.
type ThoughtPatch struct {
	Ignited  *bool `json:"ignited,omitempty"`
	Archived *bool `json:"archived,omitempty"`
}
