package entities

// CategoryNode is one row of the region/cat1/cat2 tree. Cat1 and Cat2 may be
// empty: a row with only Region ensures the region exists, a row with Region
// and Cat1 ensures the first-level category exists.
type CategoryNode struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Region string `gorm:"uniqueIndex:idx_category_path" json:"region"`
	Cat1   string `gorm:"uniqueIndex:idx_category_path" json:"cat1"`
	Cat2   string `gorm:"uniqueIndex:idx_category_path" json:"cat2"`

	Timestamp
}
