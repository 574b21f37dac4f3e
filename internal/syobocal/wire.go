package syobocal

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"
)

// Wire structures for the db.php XML interface. Kept separate from the
// domain records so upstream renames stay contained here.

type apiResult struct {
	Code    int    `xml:"Code"`
	Message string `xml:"Message"`
}

func (r apiResult) err(command string) error {
	if r.Code != 0 && r.Code != http.StatusOK {
		return fmt.Errorf("%s: upstream code %d: %s", command, r.Code, r.Message)
	}
	return nil
}

type chLookupResponse struct {
	XMLName xml.Name  `xml:"ChLookupResponse"`
	Result  apiResult `xml:"Result"`
	Items   []chItem  `xml:"ChItems>ChItem"`
}

type chItem struct {
	ChID       int    `xml:"ChID"`
	ChName     string `xml:"ChName"`
	ChiEPGName string `xml:"ChiEPGName"`
	ChURL      string `xml:"ChURL"`
	ChEPGURL   string `xml:"ChEPGURL"`
	ChComment  string `xml:"ChComment"`
	ChGID      int    `xml:"ChGID"`
	ChNumber   int    `xml:"ChNumber"`
}

func (it chItem) channel() Channel {
	return Channel{
		ID:       it.ChID,
		Number:   it.ChNumber,
		Name:     it.ChName,
		GroupID:  it.ChGID,
		Comment:  it.ChComment,
		EPGURL:   it.ChEPGURL,
		IEPGName: it.ChiEPGName,
		URL:      it.ChURL,
	}
}

type progLookupResponse struct {
	XMLName xml.Name   `xml:"ProgLookupResponse"`
	Result  apiResult  `xml:"Result"`
	Items   []progItem `xml:"ProgItems>ProgItem"`
}

type progItem struct {
	PID         int     `xml:"PID"`
	TID         int     `xml:"TID"`
	StTime      jstTime `xml:"StTime"`
	EdTime      jstTime `xml:"EdTime"`
	ChID        int     `xml:"ChID"`
	Count       int     `xml:"Count"`
	STSubTitle  string  `xml:"STSubTitle"`
	ProgComment string  `xml:"ProgComment"`
	Flag        int     `xml:"Flag"`
	Deleted     int     `xml:"Deleted"`
	Warn        int     `xml:"Warn"`
	Revision    int     `xml:"Revision"`
	LastUpdate  jstTime `xml:"LastUpdate"`
}

func (it progItem) program() Program {
	return Program{
		ID:         it.PID,
		TitleID:    it.TID,
		ChannelID:  it.ChID,
		SubTitle:   it.STSubTitle,
		Count:      it.Count,
		StartedAt:  it.StTime.Time,
		FinishedAt: it.EdTime.Time,
		Flag:       it.Flag != 0,
		Deleted:    it.Deleted != 0,
		Warn:       it.Warn != 0,
		Revision:   it.Revision,
		UpdatedAt:  it.LastUpdate.Time,
		Comment:    it.ProgComment,
	}
}

type titleLookupResponse struct {
	XMLName xml.Name    `xml:"TitleLookupResponse"`
	Result  apiResult   `xml:"Result"`
	Items   []titleItem `xml:"TitleItems>TitleItem"`
}

type titleItem struct {
	TID           int    `xml:"TID"`
	Title         string `xml:"Title"`
	ShortTitle    string `xml:"ShortTitle"`
	TitleYomi     string `xml:"TitleYomi"`
	TitleEN       string `xml:"TitleEN"`
	Comment       string `xml:"Comment"`
	Cat           int    `xml:"Cat"`
	TitleFlag     int    `xml:"TitleFlag"`
	FirstYear     int    `xml:"FirstYear"`
	FirstMonth    int    `xml:"FirstMonth"`
	FirstEndYear  int    `xml:"FirstEndYear"`
	FirstEndMonth int    `xml:"FirstEndMonth"`
	FirstCh       string `xml:"FirstCh"`
	Keywords      string `xml:"Keywords"`
	UserPoint     int    `xml:"UserPoint"`
	UserPointRank int    `xml:"UserPointRank"`
	SubTitles     string `xml:"SubTitles"`
}

func (it titleItem) title() Title {
	return Title{
		ID:            it.TID,
		Name:          it.Title,
		EnglishName:   it.TitleEN,
		ShortTitle:    it.ShortTitle,
		Kana:          it.TitleYomi,
		CategoryID:    it.Cat,
		Comment:       it.Comment,
		Keywords:      it.Keywords,
		Flag:          it.TitleFlag,
		Point:         it.UserPoint,
		Rank:          it.UserPointRank,
		FirstYear:     it.FirstYear,
		FirstMonth:    it.FirstMonth,
		FirstEndYear:  it.FirstEndYear,
		FirstEndMonth: it.FirstEndMonth,
		FirstChannel:  it.FirstCh,
		SubTitles:     it.SubTitles,
	}
}

// jst is the zone upstream timestamps are expressed in; db.php sends no
// zone designator.
var jst = time.FixedZone("JST", 9*60*60)

const timeLayout = "2006-01-02 15:04:05"

// jstTime decodes "2006-01-02 15:04:05" element text as JST. An empty
// element decodes to the zero time.
type jstTime struct {
	time.Time
}

func (t *jstTime) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(timeLayout, s, jst)
	if err != nil {
		return fmt.Errorf("parse time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
