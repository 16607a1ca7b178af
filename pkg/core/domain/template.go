package domain

// Template is a visual theme selectable for the public page.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultTemplate is applied to new profiles.
const DefaultTemplate = "default"

// Templates is the built-in theme registry.
var Templates = []Template{
	{ID: "default", Name: "Classic", Description: "Timeless design with elegant animations and subtle shadows"},
	{ID: "modern", Name: "Modern", Description: "Bold and contemporary design with glassmorphism effects"},
	{ID: "minimal", Name: "Minimal", Description: "Clean and distraction-free layout"},
	{ID: "dark", Name: "Dark", Description: "High-contrast dark theme"},
	{ID: "gradient", Name: "Gradient", Description: "Vivid gradient backdrop"},
	{ID: "elegant", Name: "Elegant", Description: "Refined serif styling"},
}

// ValidTemplate reports whether id names a built-in template.
func ValidTemplate(id string) bool {
	for _, t := range Templates {
		if t.ID == id {
			return true
		}
	}
	return false
}
