package services

// TemplateField describes one column in the material import template.
type TemplateField struct {
	Key          string // PocketBase field name
	Label        string // header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string
	ExampleValue string
	Required     bool
}

// MaterialTemplateFields returns the ordered columns of a material import file.
func MaterialTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "name", Label: "Name", Description: "Catalog item name", ExampleValue: "12 AWG THHN Copper 500ft", Required: true},
		{Key: "category", Label: "Category", Description: "Estimate category (select from dropdown)", FormatRule: "Exact category name", ExampleValue: "Wire", Required: true},
		{Key: "unit", Label: "Unit", Description: "Unit of measure", ExampleValue: "Roll"},
		{Key: "unit_price", Label: "Unit Price", Description: "Material price per unit", FormatRule: "Number, 0 or more", ExampleValue: "89.97"},
		{Key: "labor_hours", Label: "Labor Hours", Description: "Labor hours per unit", FormatRule: "Number, 0 or more", ExampleValue: "4"},
	}
}

// fieldLabel returns the column label for a field key, or the key itself.
func fieldLabel(key string) string {
	for _, f := range MaterialTemplateFields() {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}
