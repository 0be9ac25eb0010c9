package pages

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// ValidationError is a problem with user input, caught before any backend
// call. Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

type StockLevel struct {
	Name  string
	Color string
}

var (
	StockLow    = StockLevel{Name: "low", Color: "#ffcccb"}
	StockMedium = StockLevel{Name: "medium", Color: "#fffacd"}
	StockHigh   = StockLevel{Name: "high", Color: "#d4edda"}
)

func StockLevelFor(stock int) StockLevel {
	switch {
	case stock <= 5:
		return StockLow
	case stock <= 15:
		return StockMedium
	default:
		return StockHigh
	}
}

// FilterProducts keeps products whose name contains search, ignoring case
// and surrounding blanks. An empty search keeps everything.
func FilterProducts(list []models.Product, search string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return list
	}
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

const uncategorized = "Uncategorized"

// CategoryName resolves ref against categories. A populated ref wins; an
// unknown id reads as "Uncategorized".
func CategoryName(categories []models.Category, ref models.Ref) string {
	if ref.Name != "" {
		return ref.Name
	}
	for _, c := range categories {
		if c.ID == ref.ID {
			return c.Name
		}
	}
	return uncategorized
}

func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("Comment cannot be empty.")
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("Please fill up all the fields.")
	}
	return nil
}

func ValidateSignup(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return invalid("Please fill up all the fields.")
	}
	if !strings.Contains(email, "@") {
		return invalid("Please enter a valid email address.")
	}
	if password != confirm {
		return invalid("Password and confirm password should match.")
	}
	return nil
}

func ValidateProfile(name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return invalid("Name and email cannot be empty.")
	}
	return nil
}

func ValidatePasswordChange(oldPassword, newPassword, confirm string) error {
	if oldPassword == "" || newPassword == "" || confirm == "" {
		return invalid("All password fields are required.")
	}
	if oldPassword == newPassword {
		return invalid("New password must be different from the old password.")
	}
	if newPassword != confirm {
		return invalid("New password and confirmation do not match.")
	}
	return nil
}

// ProductForm is the product editor as submitted, before parsing.
type ProductForm struct {
	Name        string
	Price       string
	Stock       string
	Description string
	Image       string
	Category    string
}

func ValidateProduct(f ProductForm) (models.ProductInput, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" || strings.TrimSpace(f.Price) == "" || strings.TrimSpace(f.Category) == "" {
		return models.ProductInput{}, invalid("Name, price and category are required.")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return models.ProductInput{}, invalid("Price must be a non-negative number.")
	}
	stock := 0
	if s := strings.TrimSpace(f.Stock); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return models.ProductInput{}, invalid("Stock must be a non-negative whole number.")
		}
	}
	return models.ProductInput{
		Name:        name,
		Price:       price.Round(2),
		Stock:       stock,
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
		Category:    strings.TrimSpace(f.Category),
	}, nil
}

func ValidateCategory(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("Category name is required.")
	}
	return nil
}

// pageNumber parses a 1-based page from the query string.
func pageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// safeRedirect only follows local paths.
func safeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func itoa(n int) string { return strconv.Itoa(n) }
