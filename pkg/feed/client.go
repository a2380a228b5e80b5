package feed

import "time"

type Item struct {
	Title       string
	Body        string
	URL         string
	PublishedAt time.Time
}

type Source interface {
	Fetch(limit int) ([]Item, error)
	Name() string
}
