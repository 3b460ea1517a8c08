package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

const png = "data:image/png;base64,AAAA"

func seedItem(t *testing.T, repo *repository.MemoryRepository, id, storeID, category string, price float64) {
	t.Helper()
	require.NoError(t, repo.CreateItem(context.Background(), &models.Item{
		ID:              id,
		StoreID:         storeID,
		ItemName:        "Item " + id,
		ItemDescription: "About " + id,
		ItemPrice:       price,
		Quantity:        1,
		Category:        category,
		ItemImages:      []string{png},
		CreatedAt:       now,
	}))
}

// router mounts the catalog with the vendor identity that ValidateToken
// would have placed on the context.
func router(repo repository.ItemRepository, storeID, userID string) *gin.Engine {
	r := gin.New()
	clock := func() time.Time { return now }

	r.GET("/api/shop-products", GetShopProducts(repo))
	r.GET("/api/products/:id", GetItemByID(repo))

	vendor := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.StoreIDKey, storeID)
		c.Set(middleware.UserIDKey, userID)
	})
	vendor.POST("/add-item", CreateItem(repo, clock))
	vendor.GET("/view-items", GetStoreItems(repo))
	vendor.PUT("/update-item", UpdateItem(repo))
	vendor.DELETE("/delete-item", DeleteItem(repo))
	vendor.POST("/add-item-category", AddItemCategory(repo, clock))
	vendor.POST("/items/import-excel", ImportItemsFromExcel(repo, clock))
	vendor.GET("/items/export-excel", ExportItemsToExcel(repo))
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateItem(t *testing.T) {
	repo := repository.NewMemoryRepository()
	r := router(repo, "store-A", "u1")

	w := do(r, http.MethodPost, "/api/add-item", `{
		"itemName": "Mug", "itemDescription": "Stoneware", "itemPrice": 12.5,
		"compareAtPrice": 15, "costPerItem": 4, "quantity": 3,
		"category": "kitchen", "itemImages": ["`+png+`"]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Item    models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Item.ID)
	assert.Equal(t, "store-A", resp.Item.StoreID)
	assert.True(t, resp.Item.CreatedAt.Equal(now))

	stored, err := repo.FindItem(context.Background(), resp.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, stored.ItemPrice)
	assert.Equal(t, 3, stored.Quantity)
}

func TestCreateItemRejects(t *testing.T) {
	repo := repository.NewMemoryRepository()
	r := router(repo, "store-A", "u1")

	cases := map[string]struct {
		body string
		code int
	}{
		"no images":      {`{"itemName":"Mug","itemDescription":"d","itemPrice":1,"category":"k","itemImages":[]}`, http.StatusBadRequest},
		"url image":      {`{"itemName":"Mug","itemDescription":"d","itemPrice":1,"category":"k","itemImages":["https://x/y.png"]}`, http.StatusBadRequest},
		"no category":    {`{"itemName":"Mug","itemDescription":"d","itemPrice":1,"itemImages":["` + png + `"]}`, http.StatusBadRequest},
		"no price":       {`{"itemName":"Mug","itemDescription":"d","category":"k","itemImages":["` + png + `"]}`, http.StatusBadRequest},
		"negative price": {`{"itemName":"Mug","itemDescription":"d","itemPrice":-1,"category":"k","itemImages":["` + png + `"]}`, http.StatusBadRequest},
		"other store":    {`{"storeID":"store-B","itemName":"Mug","itemDescription":"d","itemPrice":1,"category":"k","itemImages":["` + png + `"]}`, http.StatusForbidden},
	}
	for name, tc := range cases {
		w := do(r, http.MethodPost, "/api/add-item", tc.body)
		assert.Equal(t, tc.code, w.Code, name)
	}

	all, err := repo.FindItems(context.Background(), repository.ItemQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestShopProductsFilterAndSort(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	seedItem(t, repo, "i2", "store-B", "mugs", 10)
	seedItem(t, repo, "i3", "store-B", "caps", 20)
	r := router(repo, "store-A", "u1")

	ids := func(w *httptest.ResponseRecorder) []string {
		var items []models.Item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		out := []string{}
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}

	w := do(r, http.MethodGet, "/api/shop-products?category=mugs&sort=price-asc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"i2", "i1"}, ids(w))

	w = do(r, http.MethodGet, "/api/shop-products?sort=price-desc", "")
	assert.Equal(t, []string{"i1", "i3", "i2"}, ids(w))

	w = do(r, http.MethodGet, "/api/shop-products?category=hats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetItemByID(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	r := router(repo, "store-A", "u1")

	w := do(r, http.MethodGet, "/api/products/i1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"_id":"i1"`)

	w = do(r, http.MethodGet, "/api/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())
}

func TestGetStoreItemsOnlyOwnStore(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	seedItem(t, repo, "i2", "store-B", "mugs", 10)

	w := do(router(repo, "store-A", "u1"), http.MethodGet, "/api/view-items", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []models.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "i1", resp.Items[0].ID)

	w = do(router(repo, "store-C", "u3"), http.MethodGet, "/api/view-items", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"No items found for this store."}`, w.Body.String())
}

func TestUpdateItem(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	r := router(repo, "store-A", "u1")

	w := do(r, http.MethodPut, "/api/update-item", `{
		"itemID": "i1", "updatedItemName": "Big mug", "updatedItemDescription": "Larger",
		"updatedItemPrice": 35, "quantity": 0
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	item, err := repo.FindItem(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "Big mug", item.ItemName)
	assert.Equal(t, 35.0, item.ItemPrice)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, "mugs", item.Category, "category is kept when omitted")
	assert.Equal(t, []string{png}, item.ItemImages, "images are kept when omitted")

	w = do(r, http.MethodPut, "/api/update-item", `{"itemID":"i1","updatedItemName":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemOfAnotherStore(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	r := router(repo, "store-B", "u2")

	w := do(r, http.MethodPut, "/api/update-item", `{
		"itemID": "i1", "updatedItemName": "Mine now", "updatedItemDescription": "x", "updatedItemPrice": 1
	}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	item, err := repo.FindItem(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "Item i1", item.ItemName)
}

func TestDeleteItem(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	seedItem(t, repo, "i2", "store-A", "mugs", 10)
	seedItem(t, repo, "i3", "store-A", "mugs", 10)
	seedItem(t, repo, "x1", "store-B", "mugs", 10)
	r := router(repo, "store-A", "u1")

	w := do(r, http.MethodDelete, "/api/delete-item", `{"itemID":"i1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Item deleted successfully!"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/delete-item", `{"itemID":"x1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/delete-item", `{"itemIDs":["i2","i3","x1"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"2 item(s) deleted successfully."}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/delete-item", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := repo.FindItem(context.Background(), "x1")
	assert.NoError(t, err)
}

func TestAddItemCategory(t *testing.T) {
	r := router(repository.NewMemoryRepository(), "store-A", "u1")

	w := do(r, http.MethodPost, "/api/add-item-category", `{"userID":"u1","itemType":"ceramics"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Item category added!"`)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/add-item-category", `{"userID":"u1"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/add-item-category", `{"userID":"u2","itemType":"x"}`).Code)
}

func upload(t *testing.T, r *gin.Engine, file *xlsx.File) *httptest.ResponseRecorder {
	t.Helper()
	var sheet bytes.Buffer
	require.NoError(t, file.Write(&sheet))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "items.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import-excel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

func TestImportItemsFromExcel(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	seedItem(t, repo, "x1", "store-B", "mugs", 10)
	r := router(repo, "store-A", "u1")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	require.NoError(t, err)
	addRow(sheet, itemColumns...)
	addRow(sheet, "i1", "Renamed", "About i1", "31", "0", "0", "2", "mugs", "")
	addRow(sheet, "", "Cap", "Wool", "8.5", "10", "3", "5", "caps", png+" | "+png)
	addRow(sheet, "x1", "Stolen", "d", "1", "0", "0", "1", "mugs", png)
	addRow(sheet, "", "No price", "d", "abc", "0", "0", "1", "caps", png)
	addRow(sheet, "", "No image", "d", "1", "0", "0", "1", "caps", "")

	w := upload(t, r, file)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Created int `json:"created_count"`
		Updated int `json:"updated_count"`
		Skipped int `json:"skipped_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Created, "the cap and a copy of the foreign row")
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 2, resp.Skipped)

	updated, err := repo.FindItem(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.ItemName)
	assert.Equal(t, []string{png}, updated.ItemImages)

	foreign, err := repo.FindItem(context.Background(), "x1")
	require.NoError(t, err)
	assert.Equal(t, "Item x1", foreign.ItemName)

	caps, err := repo.FindItems(context.Background(), repository.ItemQuery{StoreID: "store-A", Category: "caps"})
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Len(t, caps[0].ItemImages, 2)
}

func TestImportItemsRequiresFile(t *testing.T) {
	r := router(repository.NewMemoryRepository(), "store-A", "u1")
	w := do(r, http.MethodPost, "/api/items/import-excel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportItemsToExcel(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seedItem(t, repo, "i1", "store-A", "mugs", 30)
	seedItem(t, repo, "x1", "store-B", "mugs", 10)
	r := router(repo, "store-A", "u1")

	w := do(r, http.MethodGet, "/api/items/export-excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=store-A-items.xlsx", w.Header().Get("Content-Disposition"))

	body := w.Body.Bytes()
	file, err := xlsx.OpenReaderAt(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Contains(t, file.Sheet, "Items")
	rows := file.Sheet["Items"].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0].Cells[0].Value)
	assert.Equal(t, "i1", rows[1].Cells[0].Value)
	assert.Equal(t, "30", rows[1].Cells[3].Value)
	assert.Equal(t, "1", rows[1].Cells[9].Value)
}
