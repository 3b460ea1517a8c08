package analytics

import (
	"github.com/tealeg/xlsx"
)

// Workbook lays the summary out in three sheets: the dashboard cards, the
// best-selling table and the daily series.
func Workbook(s Summary) (*xlsx.File, error) {
	file := xlsx.NewFile()

	cards, err := file.AddSheet("Summary")
	if err != nil {
		return nil, err
	}
	bestSeller := s.BestSeller
	if bestSeller == "" {
		bestSeller = "N/A"
	}
	for _, kv := range []struct {
		label string
		value interface{}
	}{
		{"Store", s.StoreID},
		{"Store Name", s.StoreName},
		{"Window", string(s.Window)},
		{"Total Orders", s.TotalOrders},
		{"Revenue", s.Revenue},
		{"Items Sold", s.ItemsSold},
		{"Best Seller", bestSeller},
	} {
		row := cards.AddRow()
		row.AddCell().SetValue(kv.label)
		row.AddCell().SetValue(kv.value)
	}

	items, err := file.AddSheet("Best Selling Items")
	if err != nil {
		return nil, err
	}
	header := items.AddRow()
	for _, h := range []string{"Item Name", "Total Sold", "Price", "First Sold"} {
		header.AddCell().SetValue(h)
	}
	for _, r := range s.BestSelling {
		row := items.AddRow()
		row.AddCell().SetValue(r.Title)
		row.AddCell().SetValue(r.Quantity)
		row.AddCell().SetValue(r.Price)
		first := ""
		if !r.FirstSoldDate.IsZero() {
			first = r.FirstSoldDate.UTC().Format("2006-01-02")
		}
		row.AddCell().SetValue(first)
	}

	daily, err := file.AddSheet("Daily Sales")
	if err != nil {
		return nil, err
	}
	header = daily.AddRow()
	for _, h := range []string{"Date", "Revenue", "Items Sold"} {
		header.AddCell().SetValue(h)
	}
	for _, p := range s.Daily {
		row := daily.AddRow()
		row.AddCell().SetValue(p.Date)
		row.AddCell().SetValue(p.Revenue)
		row.AddCell().SetValue(p.ItemsSold)
	}

	return file, nil
}
