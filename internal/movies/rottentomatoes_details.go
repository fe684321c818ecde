package movies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoMovieURL is returned when details are requested for a result without a page.
var ErrNoMovieURL = errors.New("movie has no page url")

var (
	criticScorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"aggregateRating".*?"ratingValue":"?(\d+)"?`),
		regexp.MustCompile(`(?:tomatometer|score)["']?\s*:\s*["']?(\d+)["']?`),
		regexp.MustCompile(`data-qa="tomatometer"[^>]*>(\d+)%`),
	}
	audienceScorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"audience[sS]core":\s*"?(\d+)"?`),
		regexp.MustCompile(`popcornmeter[^>]*>(\d+)%`),
		regexp.MustCompile(`audience-score[^>]*>(\d+)%`),
		regexp.MustCompile(`data-qa="audience-score"[^>]*>(\d+)%`),
	}
	releaseYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:dateCreated|release)["']?\s*:\s*["']?(?:[^"']*?)(\d{4})`),
		regexp.MustCompile(`(?:release|released|year)[^<>\d]{1,20}((?:19|20)\d{2})`),
	}
	reviewBodyRe      = regexp.MustCompile(`"reviewBody":\s*"([^"]{20,})"`)
	consensusPrefixRe = regexp.MustCompile(`(?i)^Critics\s+Consensus:?\s*`)

	consensusSelectors = []string{
		`[data-qa="critics-consensus"]`,
		".what-to-know__consensus",
		".criticsconsensus",
		".critic_consensus",
		"p.consensus",
	}
)

// Details loads the movie page behind a search result and fills in the
// critics consensus as the overview plus the critic and audience scores.
func (c *RottenTomatoesClient) Details(ctx context.Context, movie Movie) (Movie, error) {
	if movie.URL == "" {
		return movie, ErrNoMovieURL
	}

	doc, err := c.fetchDocument(ctx, movie.URL)
	if err != nil {
		return movie, fmt.Errorf("failed to fetch movie details: %w", err)
	}

	htmlContent, err := doc.Html()
	if err != nil {
		return movie, err
	}

	// og:title reads "Title | Rotten Tomatoes"
	if title, _, _ := strings.Cut(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""), "|"); strings.TrimSpace(title) != "" {
		movie.Title = strings.TrimSpace(title)
	}

	scoreBoard := doc.Find("score-board, media-scorecard").First()

	movie.CriticScore = strings.TrimSpace(scoreBoard.AttrOr("tomatometerscore", ""))
	if movie.CriticScore == "" {
		movie.CriticScore = firstMatch(htmlContent, criticScorePatterns)
	}
	movie.AudienceScore = strings.TrimSpace(scoreBoard.AttrOr("audiencescore", ""))
	if movie.AudienceScore == "" {
		movie.AudienceScore = firstMatch(htmlContent, audienceScorePatterns)
	}

	if movie.VoteAverage <= 0 {
		if pct, err := strconv.Atoi(movie.CriticScore); err == nil && pct > 0 {
			movie.VoteAverage = float64(pct) / 10
		}
	}

	if movie.Year() == "N/A" {
		movie.ReleaseDate = firstMatch(htmlContent, releaseYearPatterns)
	}

	if consensus := findConsensus(doc, htmlContent); consensus != "" {
		movie.Overview = consensus
	}

	return movie, nil
}

func findConsensus(doc *goquery.Document, htmlContent string) string {
	var text string
	for _, selector := range consensusSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if candidate := strings.TrimSpace(sel.Text()); len(candidate) > 20 {
				text = candidate
				break
			}
		}
	}

	// Structured data fallback
	if text == "" {
		if matches := reviewBodyRe.FindStringSubmatch(htmlContent); len(matches) > 1 {
			text = matches[1]
		}
	}

	text = consensusPrefixRe.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.Join(strings.Fields(text), " ")
}

func firstMatch(content string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if matches := re.FindStringSubmatch(content); len(matches) > 1 {
			return matches[1]
		}
	}
	return ""
}
