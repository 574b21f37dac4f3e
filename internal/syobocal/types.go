package syobocal

import "time"

// Channel is one broadcast station as returned by ChLookup.
type Channel struct {
	ID       int
	Number   int
	Name     string
	GroupID  int
	Comment  string
	EPGURL   string
	IEPGName string
	URL      string
}

// Title is one show as returned by TitleLookup. Flag is the raw upstream
// TitleFlag bitmask.
type Title struct {
	ID            int
	Name          string
	EnglishName   string
	ShortTitle    string
	Kana          string
	CategoryID    int
	Comment       string
	Keywords      string
	Flag          int
	Point         int
	Rank          int
	FirstYear     int
	FirstMonth    int
	FirstEndYear  int
	FirstEndMonth int
	FirstChannel  string
	SubTitles     string
}

// Program is one broadcast slot. Deleted, Warn and Flag are derived from
// the upstream 0/1 fields. Channel and Title are populated only when the
// query asked for the corresponding include.
type Program struct {
	ID         int
	TitleID    int
	ChannelID  int
	SubTitle   string
	Count      int
	StartedAt  time.Time
	FinishedAt time.Time
	Flag       bool
	Deleted    bool
	Warn       bool
	Revision   int
	UpdatedAt  time.Time
	Comment    string
	Channel    *Channel
	Title      *Title
}

// Include names an association to join onto ProgLookup results.
type Include string

const (
	IncludeChannel Include = "channel"
	IncludeTitle   Include = "title"
)

// ProgramQuery bounds a ProgLookup request. Zero-valued fields are
// omitted from the upstream request.
type ProgramQuery struct {
	PlayedFrom time.Time
	PlayedTo   time.Time
	ChannelID  string // raw comma-separated ids, sent verbatim as ChID
	Includes   []Include
}
