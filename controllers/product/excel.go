package productcontroller

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
)

// Import columns, in sheet order. ItemImages holds data URIs separated by
// imageSeparator and may be left empty to keep an existing item's images.
var itemColumns = []string{
	"ID", "ItemName", "ItemDescription", "ItemPrice", "CompareAtPrice",
	"CostPerItem", "Quantity", "Category", "ItemImages",
}

const imageSeparator = "|"

func splitImages(cell string) []string {
	var images []string
	for _, part := range strings.Split(cell, imageSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			images = append(images, part)
		}
	}
	return images
}

// POST /api/items/import-excel
//
// Rows whose ID names one of the caller's items update it; every other valid
// row creates a new item.
func ImportItemsFromExcel(repo repository.ItemRepository, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := vendorStore(c, c.PostForm("storeID"))
		if !ok {
			return
		}

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < len(itemColumns)-1 {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			price, err := strconv.ParseFloat(get(3), 64)
			if get(1) == "" || err != nil {
				skippedCount++
				continue
			}
			compareAt, _ := strconv.ParseFloat(get(4), 64)
			cost, _ := strconv.ParseFloat(get(5), 64)
			quantity, _ := strconv.ParseFloat(get(6), 64)
			images := splitImages(get(8))

			fields := models.Item{
				ItemName:        get(1),
				ItemDescription: get(2),
				ItemPrice:       price,
				CompareAtPrice:  compareAt,
				CostPerItem:     cost,
				Quantity:        int(quantity),
				Category:        get(7),
				ItemImages:      images,
			}

			if id := get(0); id != "" {
				existing, err := repo.FindItem(ctx, id)
				if err == nil && existing.StoreID == storeID {
					fields.ID = existing.ID
					fields.StoreID = existing.StoreID
					fields.CreatedAt = existing.CreatedAt
					if len(images) == 0 {
						fields.ItemImages = existing.ItemImages
					}
					if fields.Validate() != nil || repo.UpdateItem(ctx, &fields) != nil {
						skippedCount++
						continue
					}
					updatedCount++
					continue
				}
			}

			fields.ID = uuid.NewString()
			fields.StoreID = storeID
			fields.CreatedAt = now().UTC()
			if err := fields.Validate(); err != nil {
				skippedCount++
				continue
			}
			if err := repo.CreateItem(ctx, &fields); err != nil {
				slog.Warn("Import row failed", "store_id", storeID, "row", i+1, "error", err)
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
