package models

import "time"

// Store is a vendor account. Line items reference it by StoreID only;
// nothing enforces that the referenced store exists.
type Store struct {
	StoreID       string    `json:"storeID" bson:"storeID"`
	UserID        string    `json:"userID" bson:"userID"`
	StoreName     string    `json:"storeName" bson:"storeName"`
	ItemType      string    `json:"itemType" bson:"itemType"`
	NumCategories int       `json:"numCategories" bson:"numCategories"`
	Location      string    `json:"location" bson:"location"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
