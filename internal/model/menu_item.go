package model

// MenuItem is a dish shown on the menu page.
//
// Price is stored as DECIMAL(10,2) and carried as float64; the form layer
// rejects values with more than two decimal places. Description may contain
// markdown, which is rendered safely on HTML pages.
type MenuItem struct {
	ID          uint64  `db:"id"`                    // menu_items.id
	Name        string  `db:"name"`                  // menu_items.name
	Price       float64 `db:"price"`                 // menu_items.price
	Description string  `db:"menu_item_description"` // menu_items.menu_item_description
}
