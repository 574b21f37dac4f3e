package schedule

import (
	"sort"
	"strconv"
	"time"

	"github.com/kishikawakatsumi/anime-today/internal/syobocal"
)

// ChannelView is the wire shape of one channel. Fields pass through from
// the upstream record untouched.
type ChannelView struct {
	Comment  string `json:"comment"`
	EPGURL   string `json:"epg_url"`
	GroupID  int    `json:"group_id"`
	ID       int    `json:"id"`
	IEPGName string `json:"iepg_name"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	URL      string `json:"url"`
}

// ChannelsView is the /channels response body.
type ChannelsView struct {
	Channels []ChannelView `json:"channels"`
}

// TitleView is the title record embedded in a program. Numeric leaves
// stay numeric; everything else is textual.
type TitleView struct {
	CategoryID    int    `json:"category_id"`
	Comment       string `json:"comment"`
	FirstChannel  string `json:"first_channel"`
	FirstEndMonth int    `json:"first_end_month"`
	FirstEndYear  int    `json:"first_end_year"`
	FirstMonth    int    `json:"first_month"`
	FirstYear     int    `json:"first_year"`
	Keywords      string `json:"keywords"`
	ShortTitle    string `json:"short_title"`
	SubTitles     string `json:"sub_titles"`
	ID            int    `json:"id"`
	Name          string `json:"name"`
	EnglishName   string `json:"english_name"`
	Flag          int    `json:"flag"`
	Kana          string `json:"kana"`
	Point         int    `json:"point"`
	Rank          int    `json:"rank"`
}

// ProgramView is the wire shape of one program. Every leaf except
// numbers and timestamps is rendered as a string; in particular the
// deleted/flag/warn booleans become "true"/"false".
type ProgramView struct {
	ChannelID  int         `json:"channel_id"`
	Comment    string      `json:"comment"`
	Count      int         `json:"count"`
	Deleted    string      `json:"deleted"`
	FinishedAt time.Time   `json:"finished_at"`
	Flag       string      `json:"flag"`
	ID         int         `json:"id"`
	Revision   int         `json:"revision"`
	StartedAt  time.Time   `json:"started_at"`
	SubTitle   string      `json:"sub_title"`
	TitleID    int         `json:"title_id"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Warn       string      `json:"warn"`
	Channel    ChannelView `json:"channel"`
	Title      TitleView   `json:"title"`
}

// ProgramsView is the /programs response body.
type ProgramsView struct {
	Programs []ProgramView `json:"programs"`
}

// ProjectChannels filters by group when groupID is non-nil and sorts by
// (group_id, id). A non-numeric groupID compares against group 0.
func ProjectChannels(channels []syobocal.Channel, groupID *string) ChannelsView {
	if groupID != nil {
		want, _ := strconv.Atoi(*groupID)
		filtered := make([]syobocal.Channel, 0, len(channels))
		for _, ch := range channels {
			if ch.GroupID == want {
				filtered = append(filtered, ch)
			}
		}
		channels = filtered
	}

	views := make([]ChannelView, 0, len(channels))
	for _, ch := range channels {
		views = append(views, channelView(ch))
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].GroupID != views[j].GroupID {
			return views[i].GroupID < views[j].GroupID
		}
		return views[i].ID < views[j].ID
	})
	return ChannelsView{Channels: views}
}

// ProjectPrograms sorts by (started_at, channel_id) and renders each
// program for the wire. The input slice is not modified.
func ProjectPrograms(programs []syobocal.Program) ProgramsView {
	sorted := make([]syobocal.Program, len(programs))
	copy(sorted, programs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartedAt.Equal(sorted[j].StartedAt) {
			return sorted[i].StartedAt.Before(sorted[j].StartedAt)
		}
		return sorted[i].ChannelID < sorted[j].ChannelID
	})

	views := make([]ProgramView, 0, len(sorted))
	for _, p := range sorted {
		views = append(views, programView(p))
	}
	return ProgramsView{Programs: views}
}

func channelView(ch syobocal.Channel) ChannelView {
	return ChannelView{
		Comment:  ch.Comment,
		EPGURL:   ch.EPGURL,
		GroupID:  ch.GroupID,
		ID:       ch.ID,
		IEPGName: ch.IEPGName,
		Name:     ch.Name,
		Number:   ch.Number,
		URL:      ch.URL,
	}
}

func titleView(t syobocal.Title) TitleView {
	return TitleView{
		CategoryID:    t.CategoryID,
		Comment:       t.Comment,
		FirstChannel:  t.FirstChannel,
		FirstEndMonth: t.FirstEndMonth,
		FirstEndYear:  t.FirstEndYear,
		FirstMonth:    t.FirstMonth,
		FirstYear:     t.FirstYear,
		Keywords:      t.Keywords,
		ShortTitle:    t.ShortTitle,
		SubTitles:     t.SubTitles,
		ID:            t.ID,
		Name:          t.Name,
		EnglishName:   t.EnglishName,
		Flag:          t.Flag,
		Kana:          t.Kana,
		Point:         t.Point,
		Rank:          t.Rank,
	}
}

func programView(p syobocal.Program) ProgramView {
	v := ProgramView{
		ChannelID:  p.ChannelID,
		Comment:    p.Comment,
		Count:      p.Count,
		Deleted:    strconv.FormatBool(p.Deleted),
		FinishedAt: p.FinishedAt,
		Flag:       strconv.FormatBool(p.Flag),
		ID:         p.ID,
		Revision:   p.Revision,
		StartedAt:  p.StartedAt,
		SubTitle:   p.SubTitle,
		TitleID:    p.TitleID,
		UpdatedAt:  p.UpdatedAt,
		Warn:       strconv.FormatBool(p.Warn),
	}
	// A missing include renders as a zero view, with empty strings for
	// its textual leaves.
	if p.Channel != nil {
		v.Channel = channelView(*p.Channel)
	}
	if p.Title != nil {
		v.Title = titleView(*p.Title)
	}
	return v
}
