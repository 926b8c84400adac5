package domain

// Category is an opinion classification with optional subcategories.
// Maps to the opinion_categories table.
type Category struct {
	ID            int           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string        `gorm:"size:100;uniqueIndex" json:"name"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories"`
}

// TableName returns the table name
func (Category) TableName() string {
	return "opinion_categories"
}

// Subcategory is a second-level classification under a category
type Subcategory struct {
	ID         int    `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID int    `gorm:"column:category_id;index" json:"category_id"`
	Name       string `gorm:"size:100" json:"name"`
}

// TableName returns the table name
func (Subcategory) TableName() string {
	return "opinion_subcategories"
}

// StructuredCategories maps category names to their subcategory names,
// the shape served by GET /opinions/categories/structured.
type StructuredCategories map[string][]string

// Structure converts category records to the structured map
func Structure(categories []Category) StructuredCategories {
	out := make(StructuredCategories, len(categories))
	for _, c := range categories {
		subs := make([]string, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			subs = append(subs, s.Name)
		}
		out[c.Name] = subs
	}
	return out
}
