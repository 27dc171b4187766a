package domain

import "time"

// GalleryItem is an image listed on the index page.
type GalleryItem struct {
	Name             string
	OriginalFilename string
	URL              string
	SizeBytes        int64
	ModTime          time.Time
}
