package templates

import "bidestimator/services"

// HeaderData is shown in the top bar of every full page.
type HeaderData struct {
	CompanyName   string
	LicenseNumber string
	Projects      []ProjectSelectorItem
}

// ProjectSelectorItem is one entry of the header's recent projects menu.
type ProjectSelectorItem struct {
	ID             string
	Name           string
	EstimateNumber string
}

// SidebarData drives the navigation links and their counters.
type SidebarData struct {
	ActivePath     string
	ProjectCount   int
	MaterialCount  int
	DraftItemCount int
}

type ProjectListItem struct {
	ID               string
	EstimateNumber   string
	Name             string
	ClientName       string
	Status           string
	StatusBadgeClass string
	ItemCount        int
	GrandTotal       float64
	CreatedDate      string
}

type ProjectListData struct {
	Items         []ProjectListItem
	TotalCount    int
	Status        string
	StatusOptions []string
}

// ProjectFormData backs both the create and the edit form. Numeric fields
// hold the raw submitted text so invalid input is echoed back.
type ProjectFormData struct {
	ID             string
	IsEdit         bool
	EstimateNumber string
	Name           string
	ClientName     string
	ClientAddress  string
	Status         string
	Notes          string
	LaborRate      string
	OverheadPct    string
	ProfitPct      string
	StatusOptions  []string
	Errors         map[string]string
}

// LineItemRow is a line item with its resolved rate and computed costs.
type LineItemRow struct {
	ID           string
	Description  string
	Category     string
	Quantity     float64
	Unit         string
	UnitPrice    float64
	LaborHours   float64
	LaborRate    *float64
	ResolvedRate float64
	IsDemolition bool
	services.LineItemCost
}

// MaterialOption is a catalog material offered on the add item form.
type MaterialOption struct {
	ID         string
	Name       string
	Category   string
	Unit       string
	UnitPrice  float64
	LaborHours float64
}

// EstimateEditor is the line item table, totals and add form shared by the
// project view and the draft page.
type EstimateEditor struct {
	BasePath        string
	LaborRate       float64
	OverheadPct     float64
	ProfitPct       float64
	Items           []LineItemRow
	Totals          services.EstimateTotals
	Materials       []MaterialOption
	CategoryOptions []string
	UnitOptions     []string
	Errors          map[string]string
}

type ProjectViewData struct {
	ID               string
	EstimateNumber   string
	Name             string
	ClientName       string
	ClientAddress    string
	Status           string
	StatusBadgeClass string
	Notes            string
	CreatedDate      string
	Editor           EstimateEditor
}

type DraftViewData struct {
	Name          string
	ClientName    string
	ClientAddress string
	Editor        EstimateEditor
}

type MaterialListItem struct {
	ID         string
	Name       string
	Category   string
	Unit       string
	UnitPrice  float64
	LaborHours float64
}

type MaterialListData struct {
	Items           []MaterialListItem
	TotalCount      int
	Category        string
	CategoryOptions []string
	UnitOptions     []string
	Form            services.MaterialInput
	Errors          map[string]string
}

type MaterialImportData struct {
	Fields []services.TemplateField
}

// MaterialValidationData is the result panel shown after a file upload.
type MaterialValidationData struct {
	Result         *services.ValidationResult
	ParsedRowsJSON string
	ErrorsJSON     string
}

type SettingsData struct {
	CompanyName        string
	Address            string
	Phone              string
	LicenseNumber      string
	DefaultLaborRate   string
	DefaultOverheadPct string
	DefaultProfitPct   string
	Errors             map[string]string
}
