package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	yt "github.com/kkdai/youtube/v2"

	"cryptoguides-backend/internal/models"
)

var (
	videoURLRegex = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([\w-]{11})`)
	videoIDRegex  = regexp.MustCompile(`^[\w-]{11}$`)
)

// VideoService validates external video references for the VideoPlayer
// widget and prefills title/thumbnail defaults so editors do not start from
// a blank player.
type VideoService struct {
	httpClient *http.Client
	ytClient   *yt.Client
}

func NewVideoService() *VideoService {
	return &VideoService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		ytClient:   &yt.Client{},
	}
}

// ExtractVideoID pulls the 11-character video identifier out of any of the
// usual URL shapes. A bare identifier is accepted as-is.
func (s *VideoService) ExtractVideoID(url string) (string, error) {
	if matches := videoURLRegex.FindStringSubmatch(url); len(matches) >= 2 {
		return matches[1], nil
	}
	if videoIDRegex.MatchString(url) {
		return url, nil
	}
	return "", &ValidationError{Fields: map[string]string{"url": "not a recognizable video URL or id"}}
}

// Lookup fetches metadata for a video id, falling back to oEmbed when the
// data API path fails (age-gated or region-locked videos still resolve via
// oEmbed).
func (s *VideoService) Lookup(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	meta := &models.VideoMetadata{VideoID: videoID}

	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err == nil {
		meta.Title = video.Title
		meta.ChannelName = video.Author
		meta.Duration = int(video.Duration.Seconds())
		if len(video.Thumbnails) > 0 {
			meta.ThumbnailURL = video.Thumbnails[len(video.Thumbnails)-1].URL
		}
		return meta, nil
	}

	if oembedErr := s.lookupViaOEmbed(ctx, videoID, meta); oembedErr != nil {
		return nil, fmt.Errorf("video lookup failed via data API (%v) and oEmbed (%v)", err, oembedErr)
	}
	return meta, nil
}

func (s *VideoService) lookupViaOEmbed(ctx context.Context, videoID string, meta *models.VideoMetadata) error {
	oembedURL := "https://www.youtube.com/oembed?url=https://www.youtube.com/watch?v=" + videoID + "&format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RemoteError{Status: resp.StatusCode}
	}

	var oembed struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return &MalformedResponseError{Reason: err.Error()}
	}

	meta.Title = oembed.Title
	meta.ChannelName = oembed.AuthorName
	meta.ThumbnailURL = oembed.ThumbnailURL
	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
	}
	return nil
}
