package sitegen

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ranganmag-api/internal/models"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	Description string  `xml:"description,omitempty"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

func (g *Generator) writeFeed(articles []models.Article) error {
	channel := rssChannel{
		Title:         g.meta.Title,
		Link:          g.meta.BaseURL + "/",
		Description:   g.meta.Description,
		Language:      g.meta.Language,
		LastBuildDate: g.now().UTC().Format(time.RFC1123Z),
		Items:         make([]rssItem, 0, len(articles)),
	}
	for _, a := range articles {
		link := g.meta.BaseURL + "/articles/" + strconv.Itoa(a.ID) + ".html"
		channel.Items = append(channel.Items, rssItem{
			Title:       a.Title,
			Link:        link,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			Description: a.Description,
			Author:      a.Author,
			Category:    a.Category,
			PubDate:     pubDate(a).Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(rss{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return writeFile(filepath.Join(g.outDir, "feed.xml"), append([]byte(xml.Header), out...))
}

// pubDate prefers the article's publication date over its creation time
func pubDate(a models.Article) time.Time {
	if d, err := time.Parse("2006-01-02", a.Date); err == nil {
		return d
	}
	return a.CreatedAt.UTC()
}
