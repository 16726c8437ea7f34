package model

import "strings"

const (
	DefaultImageHost  = "https://image.tmdb.org/t/p"
	DefaultImageSize  = "w500"
	PosterPlaceholder = "./no-movie.png"
)

// Images resolves relative catalog image paths against the image host
type Images struct {
	Host string
	Size string
}

func DefaultImages() Images {
	return Images{Host: DefaultImageHost, Size: DefaultImageSize}
}

// URL returns absolute image URL or empty string when the path is not set
func (i Images) URL(path string) string {
	if path == "" {
		return ""
	}
	host := i.Host
	if host == "" {
		host = DefaultImageHost
	}
	size := i.Size
	if size == "" {
		size = DefaultImageSize
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(host, "/") + "/" + size + path
}

// Poster is like URL but falls back to the placeholder image
func (i Images) Poster(path string) string {
	if u := i.URL(path); u != "" {
		return u
	}
	return PosterPlaceholder
}
