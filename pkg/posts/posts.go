package posts

import (
	"ttscraper/pkg/tiktok"
)

// Kind discriminates the two post shapes TikTok serves
type Kind string

const (
	// KindVideo is a regular video post
	KindVideo Kind = "video"
	// KindImage is a photo-mode carousel post
	KindImage Kind = "image"
)

// Post is the caller-facing shape of one fetched post. Exactly one of Video
// and Images is set, matching Kind.
type Post struct {
	Kind        Kind             `json:"kind"`
	ID          string           `json:"id"`
	Description string           `json:"description"`
	CreatedAt   int64            `json:"createdAt"`
	Author      Author           `json:"author"`
	Video       *Video           `json:"video,omitempty"`
	Images      *ImageCollection `json:"images,omitempty"`
	Stats       Stats            `json:"stats"`
}

// Author identifies the account that published a post
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Verified bool   `json:"verified"`
}

// Video carries the playable media of a video post
type Video struct {
	ID          string `json:"id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	DurationSec int    `json:"durationSec"`
	CoverURL    string `json:"coverUrl"`
	PlayURL     string `json:"playUrl"`
	DownloadURL string `json:"downloadUrl"`
}

// ImageCollection carries the images of a photo-mode post
type ImageCollection struct {
	Title  string  `json:"title,omitempty"`
	Images []Image `json:"images"`
}

// Image is one image of a carousel, with its preferred URL first
type Image struct {
	URLs   []string `json:"urls"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// Stats carries a post's engagement counters
type Stats struct {
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Plays    int64 `json:"plays"`
	Saves    int64 `json:"saves"`
}

// Map converts one raw API item into the caller-facing shape. An item with
// an imagePost sub-object is a photo post; everything else is a video.
func Map(raw tiktok.RawPost) Post {
	post := Post{
		Kind:        KindVideo,
		ID:          raw.ID,
		Description: raw.Desc,
		CreatedAt:   raw.CreateTime,
		Author: Author{
			ID:       raw.Author.ID,
			Username: raw.Author.UniqueID,
			Nickname: raw.Author.Nickname,
			Verified: raw.Author.Verified,
		},
		Stats: Stats{
			Likes:    raw.Stats.DiggCount,
			Shares:   raw.Stats.ShareCount,
			Comments: raw.Stats.CommentCount,
			Plays:    raw.Stats.PlayCount,
			Saves:    raw.Stats.CollectCount,
		},
	}

	if raw.ImagePost != nil {
		post.Kind = KindImage
		images := make([]Image, 0, len(raw.ImagePost.Images))
		for _, img := range raw.ImagePost.Images {
			images = append(images, Image{
				URLs:   img.ImageURL.URLList,
				Width:  img.Width,
				Height: img.Height,
			})
		}
		post.Images = &ImageCollection{
			Title:  raw.ImagePost.Title,
			Images: images,
		}
		return post
	}

	if raw.Video != nil {
		post.Video = &Video{
			ID:          raw.Video.ID,
			Width:       raw.Video.Width,
			Height:      raw.Video.Height,
			DurationSec: raw.Video.Duration,
			CoverURL:    raw.Video.Cover,
			PlayURL:     raw.Video.PlayAddr,
			DownloadURL: raw.Video.DownloadAddr,
		}
	}

	return post
}

// MapAll converts a slice of raw items, preserving order
func MapAll(raw []tiktok.RawPost) []Post {
	mapped := make([]Post, 0, len(raw))
	for _, item := range raw {
		mapped = append(mapped, Map(item))
	}
	return mapped
}
