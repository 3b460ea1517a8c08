package productcontroller

import (
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// itemsWorkbook lays items out in the import column order. Image data URIs
// are too large for a cell, so ItemImages is left blank and ImageCount
// reports how many there are; re-importing the sheet keeps them.
func itemsWorkbook(items []models.Item) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range append(append([]string{}, itemColumns...), "ImageCount", "CreatedAt") {
		headerRow.AddCell().SetValue(h)
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetValue(item.ID)
		row.AddCell().SetValue(item.ItemName)
		row.AddCell().SetValue(item.ItemDescription)
		row.AddCell().SetValue(item.ItemPrice)
		row.AddCell().SetValue(item.CompareAtPrice)
		row.AddCell().SetValue(item.CostPerItem)
		row.AddCell().SetValue(item.Quantity)
		row.AddCell().SetValue(item.Category)
		row.AddCell().SetValue("")
		row.AddCell().SetValue(len(item.ItemImages))
		row.AddCell().SetValue(item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// GET /api/items/export-excel
func ExportItemsToExcel(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := vendorStore(c, c.Query("storeID"))
		if !ok {
			return
		}
		items, err := repo.FindItems(c.Request.Context(), repository.ItemQuery{StoreID: storeID})
		if err != nil {
			slog.Error("Fetch store items failed", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
			return
		}

		file, err := itemsWorkbook(items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+storeID+"-items.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			slog.Error("Write items workbook failed", "store_id", storeID, "error", err)
		}
	}
}
