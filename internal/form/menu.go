package form

import (
	"strconv"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Price limits mirror the DECIMAL(10,2) column.
const (
	priceDecimals   = 2
	priceWholeDigit = 8
)

// Menu is a new menu item submission.
type Menu struct {
	Name        string `form:"name" validate:"required,max=200"`
	Price       string `form:"price" validate:"required,numeric"`
	Description string `form:"menu_item_description" validate:"required,max=1000"`
}

// MenuFromValues reads a submission through get.
func MenuFromValues(get func(string) string) Menu {
	return Menu{
		Name:        strings.TrimSpace(get("name")),
		Price:       strings.TrimSpace(get("price")),
		Description: strings.TrimSpace(get("menu_item_description")),
	}
}

// Validate checks the submission and returns the item to persist.
func (f Menu) Validate() (model.MenuItem, Errors) {
	errs := check(f)
	if errs.Has("price") {
		return model.MenuItem{}, errs
	}

	whole, frac, _ := strings.Cut(strings.TrimLeft(f.Price, "+-"), ".")
	price, err := strconv.ParseFloat(f.Price, 64)
	switch {
	case err != nil:
		errs.Add("price", "Enter a number.")
	case price <= 0:
		errs.Add("price", "Ensure this value is greater than 0.")
	case len(frac) > priceDecimals:
		errs.Add("price", "Ensure that there are no more than 2 decimal places.")
	case len(strings.TrimLeft(whole, "0")) > priceWholeDigit:
		errs.Add("price", "Ensure that there are no more than 8 digits before the decimal point.")
	}
	if len(errs) > 0 {
		return model.MenuItem{}, errs
	}
	return model.MenuItem{Name: f.Name, Price: price, Description: f.Description}, errs
}
