package models

import "time"

type VoiceMemo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AudioURL  string    `json:"audioUrl,omitempty"` // data URL of the recorded clip
	CreatedAt time.Time `json:"createdAt"`
}

type MemoUpdate struct {
	Title    *string
	Content  *string
	AudioURL *string
}

func (m *VoiceMemo) Apply(u MemoUpdate) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Content != nil {
		m.Content = *u.Content
	}
	if u.AudioURL != nil {
		m.AudioURL = *u.AudioURL
	}
}

// HasAudio returns true if a recording is attached
func (m *VoiceMemo) HasAudio() bool {
	return m.AudioURL != ""
}
