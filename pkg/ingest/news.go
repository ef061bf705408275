package ingest

import (
	"time"

	"github.com/marketbayes/market-bayes/pkg/dataset"
)

// News is one scraped event
type News struct {
	ID       int
	Date     time.Time
	Class    dataset.Label
	Abstract string
}

// Label sets the class of every event whose day has a market movement
func Label(news []News, movements map[string]string) int {
	labeled := 0
	for i := range news {
		if news[i].Date.IsZero() {
			continue
		}
		if class, ok := movements[dayKey(news[i].Date)]; ok {
			news[i].Class = dataset.Some(class)
			labeled++
		}
	}
	return labeled
}

// ToStore converts events to records, keeping their ids
func ToStore(news []News) *dataset.Store {
	records := make([]dataset.Record, len(news))
	for i, n := range news {
		records[i] = dataset.Record{ID: n.ID, Label: n.Class, Text: n.Abstract}
	}
	return dataset.NewStore(records)
}
