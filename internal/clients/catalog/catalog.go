package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PlatformEntry struct {
	Platform NamedRef `json:"platform"`
}

type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// Game is an entry of a catalog search.
type Game struct {
	ID               int64           `json:"id"`
	Slug             string          `json:"slug"`
	Name             string          `json:"name"`
	Released         string          `json:"released"`
	BackgroundImage  string          `json:"background_image"`
	Rating           float64         `json:"rating"`
	Metacritic       int             `json:"metacritic"`
	Platforms        []PlatformEntry `json:"platforms"`
	Genres           []NamedRef      `json:"genres"`
	Tags             []NamedRef      `json:"tags"`
	ShortScreenshots []Screenshot    `json:"short_screenshots"`
}

// CoverImage is the first screenshot, used by result cards.
func (g Game) CoverImage() string {
	if len(g.ShortScreenshots) > 0 && g.ShortScreenshots[0].Image != "" {
		return g.ShortScreenshots[0].Image
	}
	return ""
}

type GameDetail struct {
	Game
	NameOriginal   string     `json:"name_original"`
	Description    string     `json:"description"`
	DescriptionRaw string     `json:"description_raw"`
	Website        string     `json:"website"`
	Developers     []NamedRef `json:"developers"`
	Publishers     []NamedRef `json:"publishers"`
}

// PlainDescription returns the description without markup.
func (d *GameDetail) PlainDescription() string {
	if d.DescriptionRaw != "" {
		return d.DescriptionRaw
	}
	if d.Description == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.Description))
	if err != nil {
		return d.Description
	}

	var parts []string
	doc.Find("p, li, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}

	return strings.Join(parts, "\n\n")
}

const (
	FamilyPC          = "pc"
	FamilyPlayStation = "playstation"
	FamilyXbox        = "xbox"
	FamilyOther       = "other"
)

// PlatformFamilies collapses the platform list into families, first seen
// first, without duplicates.
func (g Game) PlatformFamilies() []string {
	seen := make(map[string]bool)
	var families []string
	for _, p := range g.Platforms {
		family := platformFamily(p.Platform.Name)
		if seen[family] {
			continue
		}
		seen[family] = true
		families = append(families, family)
	}
	return families
}

func platformFamily(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "pc"):
		return FamilyPC
	case strings.Contains(name, "playstation"):
		return FamilyPlayStation
	case strings.Contains(name, "xbox"):
		return FamilyXbox
	default:
		return FamilyOther
	}
}

// MetacriticClass buckets a score for display. Zero means unrated.
func MetacriticClass(score int) string {
	switch {
	case score == 0:
		return ""
	case score >= 80:
		return "high"
	case score >= 60:
		return "mid"
	default:
		return "low"
	}
}

type Client struct {
	api Getter
	log *slog.Logger
}

func New(api Getter, log *slog.Logger) *Client {
	return &Client{api: api, log: log}
}

func (c *Client) SearchGames(ctx context.Context, term string) ([]Game, error) {
	const op = "clients.catalog.SearchGames"

	var games []Game
	if err := c.api.Get(ctx, "/games?search="+url.QueryEscape(term), &games); err != nil {
		c.log.Error("catalog search failed", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id int64) (*GameDetail, error) {
	const op = "clients.catalog.GetGame"

	var game GameDetail
	if err := c.api.Get(ctx, "/games/"+strconv.FormatInt(id, 10), &game); err != nil {
		c.log.Error("catalog lookup failed", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &game, nil
}
