// Package analytics turns the shared order collection into one vendor's sales
// summary and daily chart series.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/amadcodez/vendor-ready/models"
)

type Window string

const (
	Window7Days  Window = "7days"
	Window30Days Window = "30days"
	WindowAll    Window = "all"
)

const day = 24 * time.Hour

// ParseWindow accepts "7days", "30days", "all" and treats an empty string as "all".
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case Window7Days, Window30Days, WindowAll:
		return Window(s), nil
	case "":
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Cutoff returns the earliest order time the window keeps. ok is false for "all".
func (w Window) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch w {
	case Window7Days:
		return now.Add(-7 * day), true
	case Window30Days:
		return now.Add(-30 * day), true
	}
	return time.Time{}, false
}

// SalesRow is the per-title aggregation. Price is the price seen last.
type SalesRow struct {
	Title         string    `json:"title"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	FirstSoldDate time.Time `json:"firstSoldDate"`
}

// DailyPoint is one x-axis entry of the sales chart.
type DailyPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	ItemsSold int     `json:"itemsSold"`
}

// Summary is what the vendor dashboard shows. TotalOrders, Revenue, ItemsSold,
// BestSeller and BestSelling respect the window; Daily covers full history.
type Summary struct {
	StoreID     string       `json:"storeID"`
	StoreName   string       `json:"storeName,omitempty"`
	Window      Window       `json:"window"`
	TotalOrders int          `json:"totalOrders"`
	Revenue     float64      `json:"revenue"`
	ItemsSold   int          `json:"itemsSold"`
	BestSeller  string       `json:"bestSeller"`
	BestSelling []SalesRow   `json:"bestSelling"`
	Daily       []DailyPoint `json:"daily"`
}

// ChartData is the input of the chart renderer.
type ChartData struct {
	Labels    []string  `json:"labels"`
	Revenue   []float64 `json:"revenue"`
	ItemsSold []int     `json:"itemsSold"`
}

func (s Summary) Chart() ChartData {
	c := ChartData{
		Labels:    make([]string, 0, len(s.Daily)),
		Revenue:   make([]float64, 0, len(s.Daily)),
		ItemsSold: make([]int, 0, len(s.Daily)),
	}
	for _, p := range s.Daily {
		c.Labels = append(c.Labels, p.Date)
		c.Revenue = append(c.Revenue, p.Revenue)
		c.ItemsSold = append(c.ItemsSold, p.ItemsSold)
	}
	return c
}

// Aggregate summarises the orders that contain line items of storeID.
//
// Orders whose date cannot be parsed only count under WindowAll and are left
// out of the daily series.
func Aggregate(orders []models.Order, storeID string, window Window, now time.Time) Summary {
	summary := Summary{
		StoreID:     storeID,
		Window:      window,
		BestSelling: []SalesRow{},
		Daily:       []DailyPoint{},
	}
	cutoff, bounded := window.Cutoff(now)

	rows := make(map[string]*SalesRow)
	var titles []string // first-seen order, for tie-breaking
	daily := make(map[string]*DailyPoint)

	for _, order := range orders {
		items := order.ItemsForStore(storeID)
		if len(items) == 0 {
			continue
		}
		placedAt, err := order.PlacedAt()
		dated := err == nil

		if dated {
			key := placedAt.UTC().Format("2006-01-02")
			p, ok := daily[key]
			if !ok {
				p = &DailyPoint{Date: key}
				daily[key] = p
			}
			for _, item := range items {
				p.Revenue += item.LineTotal()
				p.ItemsSold += item.Quantity
			}
		}

		if bounded && (!dated || placedAt.Before(cutoff)) {
			continue
		}

		summary.TotalOrders++
		for _, item := range items {
			summary.Revenue += item.LineTotal()
			summary.ItemsSold += item.Quantity

			row, ok := rows[item.Title]
			if !ok {
				row = &SalesRow{Title: item.Title, FirstSoldDate: placedAt}
				rows[item.Title] = row
				titles = append(titles, item.Title)
			}
			row.Quantity += item.Quantity
			row.Price = item.Price
			if dated && (row.FirstSoldDate.IsZero() || placedAt.Before(row.FirstSoldDate)) {
				row.FirstSoldDate = placedAt
			}
		}
	}

	best := 0
	for _, title := range titles {
		row := rows[title]
		summary.BestSelling = append(summary.BestSelling, *row)
		if row.Quantity > best {
			best = row.Quantity
			summary.BestSeller = title
		}
	}
	sort.SliceStable(summary.BestSelling, func(i, j int) bool {
		return summary.BestSelling[i].Quantity > summary.BestSelling[j].Quantity
	})

	for _, p := range daily {
		summary.Daily = append(summary.Daily, *p)
	}
	sort.Slice(summary.Daily, func(i, j int) bool {
		return summary.Daily[i].Date < summary.Daily[j].Date
	})

	return summary
}
